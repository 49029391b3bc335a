package rastercrop

import (
	"fmt"

	"github.com/wgdzlh/rastercrop/log"
	"github.com/wgdzlh/rastercrop/utils"

	"github.com/airbusgeo/godal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// WriteRaster 按元数据将像元数组写为指定驱动格式的栅格文件，无效像元写为nodata
func (g *Toolbox) WriteRaster(path, driverCode string, arr Array, prof Profile, creationOpts ...string) (err error) {
	if _, err = ValidateDriver(driverCode); err != nil {
		return
	}
	if arr.Bands != prof.Count || arr.Rows != prof.Height || arr.Cols != prof.Width ||
		len(arr.Data) != arr.Bands*arr.Rows*arr.Cols || len(arr.Mask) != len(arr.Data) {
		err = fmt.Errorf("%w: array %dx%dx%d, profile %dx%dx%d", ErrSizeMismatch,
			arr.Bands, arr.Rows, arr.Cols, prof.Count, prof.Height, prof.Width)
		return
	}
	dtype := prof.DataType
	if dtype == godal.Unknown {
		dtype = godal.Float64
	}
	mds, err := godal.Create(godal.Memory, "", arr.Bands, dtype, arr.Cols, arr.Rows)
	if err != nil {
		log.Error(g.logTag+"create mem raster failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalDriverCreate, err)
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(mds))
	if err = mds.SetGeoTransform(prof.Transform); err != nil {
		return
	}
	if prof.CRS != "" {
		if err = mds.SetProjection(prof.CRS); err != nil {
			return
		}
	}
	var (
		fill float64
		buf  = make([]float64, arr.Rows*arr.Cols)
	)
	if prof.NoData != nil {
		fill = *prof.NoData
	}
	for b, band := range mds.Bands() {
		if prof.NoData != nil {
			if err = band.SetNoData(fill); err != nil {
				return
			}
		}
		data, mask := arr.Band(b)
		for i, v := range data {
			if mask[i] {
				v = fill
			}
			buf[i] = v
		}
		if err = band.Write(0, 0, buf, arr.Cols, arr.Rows); err != nil {
			log.Error(g.logTag+"write mem band failed", zap.Int("band", b+1), zap.Error(err))
			return
		}
	}
	if err = utils.EnsureParentDir(path, DEFAULT_DIR_PERM); err != nil {
		return
	}
	opts := []godal.DatasetTranslateOption{godal.DriverName(driverCode)}
	if len(creationOpts) > 0 {
		opts = append(opts, godal.CreationOption(creationOpts...))
	}
	out, err := mds.Translate(path, nil, opts...)
	if err != nil {
		log.Error(g.logTag+"translate raster failed", zap.String("out", path), zap.String("driver", driverCode), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalDriverCreate, err)
		return
	}
	if err = out.Close(); err != nil {
		return
	}
	log.Info(g.logTag+"raster written", zap.String("out", path), zap.String("driver", driverCode),
		zap.Int("width", arr.Cols), zap.Int("height", arr.Rows), zap.Int("bands", arr.Bands))
	return
}
