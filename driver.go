package rastercrop

import (
	"strings"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// ValidateDriver 按代码查找支持栅格数据的GDAL驱动
func ValidateDriver(code string) (drv godal.Driver, err error) {
	InitGdal()
	var ok bool
	if drv, ok = godal.RasterDriver(godal.DriverName(code)); !ok {
		if _, isVector := godal.VectorDriver(godal.DriverName(code)); isVector {
			err = &DriverError{Code: code, Hint: DRIVER_FORMATS_URL, Err: ErrUnsupportedCapability}
		} else {
			err = &DriverError{Code: code, Hint: DRIVER_FORMATS_URL, Err: ErrUnknownDriver}
		}
	} else if drv.Metadata(DCAP_RASTER) != CAPABILITY_TRUE {
		err = &DriverError{Code: code, Hint: DRIVER_FORMATS_URL, Err: ErrUnsupportedCapability}
	}
	if err != nil {
		log.Warn(LOG_TAG+"invalid raster driver", zap.String("code", code), zap.Error(err))
	}
	return
}

// DescribeDriver 获取驱动的名称、主扩展名、帮助页面和MIME类型
func DescribeDriver(code string) (rec DriverRecord, err error) {
	drv, err := ValidateDriver(code)
	if err != nil {
		return
	}
	rec = DriverRecord{
		Code:      code,
		Name:      drv.Metadata(DMD_LONGNAME),
		Extension: drv.Metadata(DMD_EXTENSION),
		MimeType:  drv.Metadata(DMD_MIMETYPE),
	}
	if topic := drv.Metadata(DMD_HELPTOPIC); topic != "" {
		rec.HelpTopic = DRIVER_HELP_URL + strings.TrimPrefix(topic, "/")
	}
	return
}

func DriverExtension(code string) (ext string, err error) {
	rec, err := DescribeDriver(code)
	if err != nil {
		return
	}
	ext = rec.Extension
	return
}

// DriverExtensions 获取驱动支持的全部扩展名
func DriverExtensions(code string) (exts []string, err error) {
	drv, err := ValidateDriver(code)
	if err != nil {
		return
	}
	exts = strings.Fields(drv.Metadata(DMD_EXTENSIONS))
	if len(exts) == 0 {
		if ext := drv.Metadata(DMD_EXTENSION); ext != "" {
			exts = []string{ext}
		}
	}
	return
}
