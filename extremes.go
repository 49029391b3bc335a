package rastercrop

import (
	"fmt"
	"iter"
	"math"
	"strconv"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/airbusgeo/godal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type compareFunc func(v, threshold float64) bool

// 反向比较，用于选出需要掩膜的像元
var inverseOperators = map[string]compareFunc{
	">":  func(v, t float64) bool { return v <= t },
	"<":  func(v, t float64) bool { return v >= t },
	">=": func(v, t float64) bool { return v < t },
	"<=": func(v, t float64) bool { return v > t },
	"==": func(v, t float64) bool { return v != t },
	"!=": func(v, t float64) bool { return v == t },
}

// Hotspots 保留满足"像元值 relate threshold"的像元，其余像元置为nodata并掩膜。原有掩膜保持不变，输入数组不被修改
func Hotspots(arr Array, relate string, threshold, nodata float64) (ret Array, err error) {
	compare, ok := inverseOperators[relate]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownOperator, relate)
		return
	}
	ret = arr.Clone()
	for i, v := range ret.Data {
		if compare(v, threshold) {
			ret.Data[i] = nodata
			ret.Mask[i] = true
		}
	}
	return
}

// Transform 获取栅格在目标坐标系下的仿射变换和尺寸。crs为空或与栅格坐标系相同时返回原值
func (g *Toolbox) Transform(raster, crs string) (rep Reprojection, err error) {
	ds, err := g.openRaster(raster)
	if err != nil {
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(ds))
	prof, err := g.profileOf(ds)
	if err != nil {
		return
	}
	rep = Reprojection{Transform: prof.Transform, Width: prof.Width, Height: prof.Height}
	if crs == "" {
		return
	}
	same, err := sameSRS(crs, prof.CRS)
	if err != nil || same {
		return
	}
	vrt := g.scratchPath(FILE_EXT_VRT)
	wds, err := ds.Warp(vrt, []string{"-of", "VRT", "-t_srs", crs})
	if err != nil {
		log.Error(g.logTag+"warp raster failed", zap.String("raster", raster), zap.String("crs", crs), zap.Error(err))
		return
	}
	defer func() {
		multierr.AppendInto(&err, wds.Close())
		godal.VSIUnlink(vrt)
	}()
	st := wds.Structure()
	rep.Width, rep.Height, rep.Reprojected = st.SizeX, st.SizeY, true
	rep.Transform, err = wds.GeoTransform()
	return
}

func roundTo(v float64, prec int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', prec, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// PixelArea 像元面积，单位由坐标系决定（地理坐标为平方度，投影坐标为平方米），乘以factor
func (g *Toolbox) PixelArea(raster, crs string, factor float64) (area float64, err error) {
	rep, err := g.Transform(raster, crs)
	if err != nil {
		return
	}
	area = roundTo(math.Abs(rep.Transform[1]*rep.Transform[5])*factor, AREA_PRECISION)
	return
}

// TotalArea 全部波段有效像元数乘以像元面积
func (g *Toolbox) TotalArea(raster, crs string, factor float64) (total float64, err error) {
	square, err := g.PixelArea(raster, crs, factor)
	if err != nil {
		return
	}
	ds, err := g.openRaster(raster)
	if err != nil {
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(ds))
	var (
		cnt int
		st  = ds.Structure()
		buf = make([]float64, st.SizeX*st.SizeY)
	)
	for b, band := range ds.Bands() {
		if err = band.Read(0, 0, buf, st.SizeX, st.SizeY); err != nil {
			log.Error(g.logTag+"read raster band failed", zap.String("raster", raster), zap.Int("band", b+1), zap.Error(err))
			return
		}
		nd, ok := band.NoData()
		for _, v := range buf {
			if !ok || !isNoData(v, &nd) {
				cnt++
			}
		}
	}
	total = float64(cnt) * square
	log.Info(g.logTag+"total area", zap.String("raster", raster), zap.Int("valid", cnt), zap.Float64("pixel", square), zap.Float64("total", total))
	return
}

// ReadBand 读取栅格某波段（从1开始）的全部像元，nodata和NaN像元标记为无效
func (g *Toolbox) ReadBand(raster string, band int) (res MaskResult, err error) {
	ds, err := g.openRaster(raster)
	if err != nil {
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(ds))
	prof, err := g.profileOf(ds)
	if err != nil {
		return
	}
	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		err = fmt.Errorf("%w: %d of %d in %s", ErrWrongBand, band, len(bands), raster)
		return
	}
	b := bands[band-1]
	arr := NewArray(1, prof.Height, prof.Width)
	if err = b.Read(0, 0, arr.Data, prof.Width, prof.Height); err != nil {
		log.Error(g.logTag+"read raster band failed", zap.String("raster", raster), zap.Int("band", band), zap.Error(err))
		return
	}
	prof.Driver = driverOf(raster)
	prof.Count = 1
	prof.NoData = nil
	if nd, ok := b.NoData(); ok {
		prof.NoData = &nd
	}
	for i, v := range arr.Data {
		arr.Mask[i] = isNoData(v, prof.NoData) || math.IsNaN(v)
	}
	res = MaskResult{Array: arr, Profile: prof}
	return
}

// 单个栅格某波段有效像元的最小最大值
func (g *Toolbox) bandRange(raster string, band int) (vr ValueRange, err error) {
	res, err := g.ReadBand(raster, band)
	if err != nil {
		return
	}
	found := false
	for i, v := range res.Array.Data {
		if res.Array.Mask[i] {
			continue
		}
		if !found {
			vr = ValueRange{Min: v, Max: v}
			found = true
			continue
		}
		vr.Min = min(vr.Min, v)
		vr.Max = max(vr.Max, v)
	}
	if !found {
		err = fmt.Errorf("%w: %s", ErrEmptyRaster, raster)
	}
	return
}

// Limits 逐个给出各栅格的最小最大值
func (g *Toolbox) Limits(rasters []string, band int) iter.Seq2[ValueRange, error] {
	return func(yield func(ValueRange, error) bool) {
		for _, r := range rasters {
			vr, err := g.bandRange(r, band)
			if !yield(vr, err) || err != nil {
				return
			}
		}
	}
}

// MinMax 全部栅格的最小最大值
func (g *Toolbox) MinMax(rasters []string, band int) (vr ValueRange, err error) {
	if len(rasters) == 0 {
		err = ErrEmptyRaster
		return
	}
	first := true
	for r, e := range g.Limits(rasters, band) {
		if e != nil {
			err = e
			return
		}
		if first {
			vr, first = r, false
			continue
		}
		vr.Min = min(vr.Min, r.Min)
		vr.Max = max(vr.Max, r.Max)
	}
	return
}
