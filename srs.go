package rastercrop

import (
	"fmt"
	"strings"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 解析坐标系描述（EPSG:xxxx、PROJ字符串或WKT），调用方负责回收
func newSpatialRef(crs string) (ref gdal.SpatialReference, err error) {
	crs = strings.TrimSpace(crs)
	if crs == "" {
		err = ErrInvalidCRS
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.SetFromUserInput(crs); err != nil {
		ref.Destroy()
		err = fmt.Errorf("%w: %s: %v", ErrInvalidCRS, crs, err)
		return
	}
	// 固定为(经度,纬度)的传统GIS坐标序，避免地理坐标系按权威定义的(纬度,经度)次序转换
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	return
}

// 判断两个坐标系描述是否等价，任一为空时视为相同
func sameSRS(a, b string) (same bool, err error) {
	if a == "" || b == "" || a == b {
		same = true
		return
	}
	refA, err := newSpatialRef(a)
	if err != nil {
		return
	}
	defer refA.Destroy()
	refB, err := newSpatialRef(b)
	if err != nil {
		return
	}
	defer refB.Destroy()
	same = refA.IsSame(refB)
	return
}

// 坐标转换器，src与dst相同时不做转换
type reprojector struct {
	src, dst gdal.SpatialReference
	noop     bool
}

func newReprojector(srs, target string) (r *reprojector, err error) {
	r = &reprojector{}
	if r.noop, err = sameSRS(srs, target); err != nil || r.noop {
		return
	}
	if r.src, err = newSpatialRef(srs); err != nil {
		return
	}
	if r.dst, err = newSpatialRef(target); err != nil {
		r.src.Destroy()
	}
	return
}

func (r *reprojector) Destroy() {
	if r.noop {
		return
	}
	r.src.Destroy()
	r.dst.Destroy()
}

// 转换WKB坐标系
func (g *Toolbox) transformWKB(wkb GdalGeo, r *reprojector) (ret GdalGeo, err error) {
	if r.noop {
		ret = wkb
		return
	}
	geo, err := gdal.CreateFromWKB(wkb, r.src, len(wkb))
	if err != nil {
		log.Error(g.logTag+"parse wkb failed", zap.Error(err))
		return
	}
	defer geo.Destroy()
	if err = geo.TransformTo(r.dst); err != nil {
		log.Error(g.logTag+"geo transform failed", zap.Error(err))
		return
	}
	ret, err = geo.ToWKB()
	return
}
