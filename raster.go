package rastercrop

import (
	"fmt"
	"iter"
	"math"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/airbusgeo/godal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// 栅格像元窗口
type window struct {
	col, row      int
	width, height int
}

// 计算范围bounds（minx,miny,maxx,maxy）在栅格中覆盖的像元窗口，并裁剪到栅格内
func pixelWindow(bounds [4]float64, gt [6]float64, width, height int) (win window, ok bool) {
	c0 := (bounds[0] - gt[0]) / gt[1]
	c1 := (bounds[2] - gt[0]) / gt[1]
	r0 := (bounds[3] - gt[3]) / gt[5]
	r1 := (bounds[1] - gt[3]) / gt[5]
	colMin, colMax := pixelSpan(c0, c1)
	rowMin, rowMax := pixelSpan(r0, r1)
	colMin, colMax = max(colMin, 0), min(colMax, width)
	rowMin, rowMax = max(rowMin, 0), min(rowMax, height)
	if colMax <= colMin || rowMax <= rowMin {
		return
	}
	win = window{col: colMin, row: rowMin, width: colMax - colMin, height: rowMax - rowMin}
	ok = true
	return
}

// 像元坐标区间覆盖的像元序号[lo, hi)，点或落在像元边上的线至少占一个像元
func pixelSpan(a, b float64) (lo, hi int) {
	lo = int(math.Floor(min(a, b)))
	hi = int(math.Ceil(max(a, b)))
	if hi == lo {
		hi++
	}
	return
}

// 窗口左上角对应的仿射变换
func (w window) transform(gt [6]float64) [6]float64 {
	return [6]float64{
		gt[0] + float64(w.col)*gt[1] + float64(w.row)*gt[2], gt[1], gt[2],
		gt[3] + float64(w.col)*gt[4] + float64(w.row)*gt[5], gt[4], gt[5],
	}
}

func isNoData(v float64, nodata *float64) bool {
	if nodata == nil {
		return false
	}
	if math.IsNaN(*nodata) {
		return math.IsNaN(v)
	}
	return v == *nodata
}

// 解析WKB矢量，srs非空且与栅格坐标系不同时转换到栅格坐标系。空WKB被忽略
func (g *Toolbox) prepareGeometries(geoms []GdalGeo, srs, rasterCRS string) (shapes []*godal.Geometry, err error) {
	r, err := newReprojector(srs, rasterCRS)
	if err != nil {
		return
	}
	defer r.Destroy()
	defer func() {
		if err != nil {
			closeAll(shapes)
			shapes = nil
		}
	}()
	var (
		wkb GdalGeo
		geo *godal.Geometry
	)
	for i, raw := range geoms {
		if len(raw) == 0 {
			continue
		}
		if wkb, err = g.transformWKB(raw, r); err != nil {
			err = fmt.Errorf("geometry %d: %w", i, err)
			return
		}
		if geo, err = g.parseWKB(wkb, nil); err != nil {
			err = fmt.Errorf("geometry %d: %w", i, err)
			return
		}
		shapes = append(shapes, geo)
	}
	return
}

// 所有非空矢量的外包范围
func unionBounds(shapes []*godal.Geometry) (bounds [4]float64, ok bool, err error) {
	var b [4]float64
	for _, s := range shapes {
		if s.Empty() {
			continue
		}
		if b, err = s.Bounds(); err != nil {
			return
		}
		if !ok {
			bounds, ok = b, true
			continue
		}
		bounds[0] = min(bounds[0], b[0])
		bounds[1] = min(bounds[1], b[1])
		bounds[2] = max(bounds[2], b[2])
		bounds[3] = max(bounds[3], b[3])
	}
	return
}

// 在内存栅格中按像元中心规则栅格化矢量，返回像元是否落在矢量内
func (g *Toolbox) rasterizeInside(shapes []*godal.Geometry, win window, gt [6]float64, crs string) (inside []uint8, err error) {
	mds, err := godal.Create(godal.Memory, "", 1, godal.Byte, win.width, win.height)
	if err != nil {
		log.Error(g.logTag+"create mem raster failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalDriverCreate, err)
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(mds))
	if err = mds.SetGeoTransform(gt); err != nil {
		return
	}
	if crs != "" {
		if err = mds.SetProjection(crs); err != nil {
			return
		}
	}
	for _, s := range shapes {
		if s.Empty() {
			continue
		}
		if err = mds.RasterizeGeometry(s, godal.Values(MASK_BURN_VALUE)); err != nil {
			log.Error(g.logTag+"rasterize geometry failed", zap.Error(err))
			return
		}
	}
	inside = make([]uint8, win.width*win.height)
	err = mds.Bands()[0].Read(0, 0, inside, win.width, win.height)
	return
}

// Mask 按矢量集合剪切栅格：读取矢量外包范围内各波段的像元，矢量外或等于nodata的像元标记为无效
func (g *Toolbox) Mask(geoms []GdalGeo, srs, rasterPath string) (res MaskResult, err error) {
	ds, err := g.openRaster(rasterPath)
	if err != nil {
		return
	}
	defer multierr.AppendInvoke(&err, multierr.Close(ds))
	prof, err := g.profileOf(ds)
	if err != nil {
		return
	}
	prof.Driver = driverOf(rasterPath)
	gt := prof.Transform
	if gt[2] != 0 || gt[4] != 0 {
		err = fmt.Errorf("%w: %s", ErrRotatedRaster, rasterPath)
		return
	}
	shapes, err := g.prepareGeometries(geoms, srs, prof.CRS)
	if err != nil {
		return
	}
	defer closeAll(shapes)
	bounds, ok, err := unionBounds(shapes)
	if err != nil {
		return
	}
	if !ok {
		err = ErrNoGeometry
		return
	}
	win, ok := pixelWindow(bounds, gt, prof.Width, prof.Height)
	if !ok {
		log.Warn(g.logTag+"shapes out of raster", zap.String("raster", rasterPath), zap.Float64s("bounds", bounds[:]))
		err = ErrEmptyIntersection
		return
	}
	newGt := win.transform(gt)
	inside, err := g.rasterizeInside(shapes, win, newGt, prof.CRS)
	if err != nil {
		return
	}
	arr := NewArray(prof.Count, win.height, win.width)
	for b, band := range ds.Bands() {
		data, mask := arr.Band(b)
		if err = band.Read(win.col, win.row, data, win.width, win.height); err != nil {
			log.Error(g.logTag+"read raster band failed", zap.String("raster", rasterPath), zap.Int("band", b+1), zap.Error(err))
			return
		}
		// 无效像元填充为本波段的nodata，无nodata时填0
		var (
			fill float64
			ndp  *float64
		)
		if nd, ok := band.NoData(); ok {
			fill, ndp = nd, &nd
		}
		for i, v := range data {
			if inside[i] == 0 || isNoData(v, ndp) {
				mask[i] = true
				data[i] = fill
			}
		}
	}
	prof.Width, prof.Height, prof.Transform = win.width, win.height, newGt
	res = MaskResult{Array: arr, Profile: prof}
	log.Info(g.logTag+"mask raster done", zap.String("raster", rasterPath), zap.Int("shapes", len(shapes)),
		zap.Int("width", win.width), zap.Int("height", win.height), zap.Int("valid", arr.Valid()))
	return
}

// Crop 剪切栅格。perFeature为false时合并全部矢量只给出一个结果，否则按输入顺序为每个矢量给出一个结果
func (g *Toolbox) Crop(geoms iter.Seq2[GdalGeo, error], srs, rasterPath string, perFeature bool) iter.Seq2[MaskResult, error] {
	return func(yield func(MaskResult, error) bool) {
		if perFeature {
			for geom, err := range geoms {
				if err != nil {
					yield(MaskResult{}, err)
					return
				}
				res, err := g.Mask([]GdalGeo{geom}, srs, rasterPath)
				if !yield(res, err) || err != nil {
					return
				}
			}
			return
		}
		var all []GdalGeo
		for geom, err := range geoms {
			if err != nil {
				yield(MaskResult{}, err)
				return
			}
			all = append(all, geom)
		}
		if len(all) == 0 {
			yield(MaskResult{}, ErrNoGeometry)
			return
		}
		yield(g.Mask(all, srs, rasterPath))
	}
}
