package rastercrop

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/wgdzlh/rastercrop/log"
	"github.com/wgdzlh/rastercrop/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 图层选择，零值为第一个图层
type Layer struct {
	index  int
	name   string
	byName bool
}

func LayerIndex(i int) Layer {
	return Layer{index: i}
}

func LayerName(name string) Layer {
	return Layer{name: name, byName: true}
}

func (l Layer) String() string {
	if l.byName {
		return l.name
	}
	return strconv.Itoa(l.index)
}

type vectorOptions struct {
	encoding string
}

type VectorOption func(*vectorOptions)

// WithEncoding 指定属性文本的字符集（如GBK），用于缺少.cpg声明的旧shp文件
func WithEncoding(charset string) VectorOption {
	return func(o *vectorOptions) {
		o.encoding = charset
	}
}

type fieldInfo struct {
	name string
	kind gdal.FieldType
}

// 打开矢量数据源并选定图层，调用方负责回收ds
func (g *Toolbox) openLayer(path string, sel Layer) (ds gdal.DataSource, layer gdal.Layer, err error) {
	ds = gdal.OpenDataSource(path, 0)
	n := ds.LayerCount()
	if n == 0 {
		ds.Destroy()
		log.Error(g.logTag+"open vector failed", zap.String("vector", path))
		err = fmt.Errorf("%w: %s", ErrGdalDriverOpen, path)
		return
	}
	if !sel.byName {
		if sel.index < 0 || sel.index >= n {
			ds.Destroy()
			err = fmt.Errorf("%w: index %d of %d in %s", ErrLayerNotFound, sel.index, n, path)
			return
		}
		layer = ds.LayerByIndex(sel.index)
		return
	}
	for i := 0; i < n; i++ {
		if l := ds.LayerByIndex(i); l.Name() == sel.name {
			layer = l
			return
		}
	}
	ds.Destroy()
	err = fmt.Errorf("%w: %q in %s", ErrLayerNotFound, sel.name, path)
	return
}

func (g *Toolbox) newDecoder(path string, o vectorOptions) (dec utils.Decoder, err error) {
	if o.encoding == "" {
		return
	}
	if cpg := utils.ReadCpg(path); cpg != "" {
		// 有.cpg声明的shp已由GDAL转为UTF-8
		log.Warn(g.logTag+"encoding ignored for shp with cpg", zap.String("vector", path), zap.String("cpg", cpg), zap.String("encoding", o.encoding))
		return
	}
	dec, err = utils.NewDecoder(o.encoding)
	return
}

// Features 逐个读取矢量图层的要素（属性、WKB矢量和图层坐标系），迭代结束或中止时关闭数据源
func (g *Toolbox) Features(path string, sel Layer, opts ...VectorOption) iter.Seq2[Feature, error] {
	return func(yield func(Feature, error) bool) {
		var o vectorOptions
		for _, opt := range opts {
			opt(&o)
		}
		dec, err := g.newDecoder(path, o)
		if err != nil {
			yield(Feature{}, err)
			return
		}
		ds, layer, err := g.openLayer(path, sel)
		if err != nil {
			yield(Feature{}, err)
			return
		}
		defer ds.Destroy()
		var (
			def     = layer.Definition()
			fields  = make([]fieldInfo, def.FieldCount())
			srs, _  = layer.SpatialReference().ToWKT()
			feature *gdal.Feature
			f       Feature
			cnt     int
		)
		for i := range fields {
			fd := def.FieldDefinition(i)
			fields[i] = fieldInfo{name: fd.Name(), kind: fd.Type()}
		}
		log.Info(g.logTag+"start read vector", zap.String("vector", path), zap.Stringer("layer", sel), zap.Int("fields", len(fields)))
		for {
			if feature = layer.NextFeature(); feature != nil {
				f, err = g.convertFeature(feature, fields, srs, dec)
				feature.Destroy()
				if err != nil {
					log.Error(g.logTag+"read feature failed", zap.String("vector", path), zap.Int("index", cnt), zap.Error(err))
					yield(Feature{}, err)
					return
				}
				if !yield(f, nil) {
					return
				}
				cnt++
			} else {
				break
			}
		}
		log.Info(g.logTag+"end read vector", zap.String("vector", path), zap.Int("cnt", cnt))
	}
}

func (g *Toolbox) convertFeature(feature *gdal.Feature, fields []fieldInfo, srs string, dec utils.Decoder) (f Feature, err error) {
	f = Feature{
		FID:        feature.FID(),
		Properties: make(Attributes, len(fields)),
		SRS:        srs,
	}
	for i, fi := range fields {
		if !feature.IsFieldSet(i) {
			f.Properties[fi.name] = nil
			continue
		}
		switch fi.kind {
		case gdal.FT_Integer, gdal.FT_Integer64:
			f.Properties[fi.name] = feature.FieldAsInteger64(i)
		case gdal.FT_Real:
			f.Properties[fi.name] = feature.FieldAsFloat64(i)
		case gdal.FT_Date, gdal.FT_DateTime:
			if t, ok := feature.FieldAsDateTime(i); ok {
				f.Properties[fi.name] = t
			} else {
				f.Properties[fi.name] = nil
			}
		default:
			var s string
			if s, err = dec.String(feature.FieldAsString(i)); err != nil {
				err = fmt.Errorf("decode field %s: %w", fi.name, err)
				return
			}
			f.Properties[fi.name] = s
		}
	}
	if geom := feature.Geometry(); geom.WKBSize() > 0 {
		f.Geom, err = geom.ToWKB()
	}
	return
}

// Properties 逐个读取要素属性
func (g *Toolbox) Properties(path string, sel Layer, opts ...VectorOption) iter.Seq2[Attributes, error] {
	return func(yield func(Attributes, error) bool) {
		for f, err := range g.Features(path, sel, opts...) {
			if !yield(f.Properties, err) || err != nil {
				return
			}
		}
	}
}

// Geometries 逐个读取要素WKB矢量
func (g *Toolbox) Geometries(path string, sel Layer) iter.Seq2[GdalGeo, error] {
	return func(yield func(GdalGeo, error) bool) {
		for f, err := range g.Features(path, sel) {
			if !yield(f.Geom, err) || err != nil {
				return
			}
		}
	}
}

// LayerSRS 获取图层坐标系WKT
func (g *Toolbox) LayerSRS(path string, sel Layer) (srs string, err error) {
	ds, layer, err := g.openLayer(path, sel)
	if err != nil {
		return
	}
	defer ds.Destroy()
	srs, _ = layer.SpatialReference().ToWKT()
	return
}
