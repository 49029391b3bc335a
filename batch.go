package rastercrop

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/wgdzlh/rastercrop/log"

	"go.uber.org/zap"
)

// 批量剪切选项
type BatchOptions struct {
	Layer         Layer
	KeepStructure bool
	Write         bool // 同时将结果写入Output
	Vector        []VectorOption
}

func labelOf(props Attributes, column string) (label string, err error) {
	v, ok := props[column]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrMissingColumn, column)
		return
	}
	switch v := v.(type) {
	case nil:
	case time.Time:
		label = v.Format(LABEL_DATE_LAYOUT)
	default:
		label = fmt.Sprint(v)
	}
	return
}

// Multiples 用矢量图层的每个要素剪切inputRoot下每个匹配filePattern的栅格。
// 输出文件名为栅格文件名加上"_"和小写的要素标签，扩展名取自驱动
func (g *Toolbox) Multiples(vectorPath, labelColumn, filePattern, inputRoot, outputRoot, driverCode string, opts BatchOptions) iter.Seq2[BatchResult, error] {
	return func(yield func(BatchResult, error) bool) {
		ext, err := DriverExtension(driverCode)
		if err != nil {
			yield(BatchResult{}, err)
			return
		}
		log.Info(g.logTag+"start batch crop", zap.String("vector", vectorPath), zap.String("label", labelColumn),
			zap.String("pattern", filePattern), zap.String("input", inputRoot), zap.String("output", outputRoot), zap.String("driver", driverCode))
		var cnt int
		for raster, err := range Find(inputRoot, filePattern, false) {
			if err != nil {
				yield(BatchResult{}, err)
				return
			}
			for f, err := range g.Features(vectorPath, opts.Layer, opts.Vector...) {
				if err != nil {
					yield(BatchResult{}, err)
					return
				}
				res, err := g.cropFeature(f, raster, labelColumn, inputRoot, outputRoot, driverCode, ext, opts)
				if err != nil {
					log.Error(g.logTag+"batch crop failed", zap.String("raster", raster), zap.Int64("fid", f.FID), zap.Error(err))
					yield(BatchResult{}, err)
					return
				}
				if !yield(res, nil) {
					return
				}
				cnt++
			}
		}
		log.Info(g.logTag+"end batch crop", zap.Int("cnt", cnt))
	}
}

func (g *Toolbox) cropFeature(f Feature, raster, labelColumn, inputRoot, outputRoot, driverCode, ext string, opts BatchOptions) (res BatchResult, err error) {
	if res.Label, err = labelOf(f.Properties, labelColumn); err != nil {
		return
	}
	res.Raster = raster
	res.Output, err = ResolveOutput(raster, inputRoot, outputRoot, OutputOptions{
		KeepStructure: opts.KeepStructure,
		Extra:         LABEL_SEPARATOR + strings.ToLower(res.Label),
		Extension:     ext,
	})
	if err != nil {
		return
	}
	if res.MaskResult, err = g.Mask([]GdalGeo{f.Geom}, f.SRS, raster); err != nil {
		return
	}
	if opts.Write {
		err = g.WriteRaster(res.Output, driverCode, res.Array, res.Profile)
	}
	return
}
