// Package plot 将多个栅格按统一的分级色标绘制为网格排列的专题图
package plot

import (
	"fmt"
	"image"
	"image/color"

	"github.com/wgdzlh/rastercrop"
	"github.com/wgdzlh/rastercrop/log"
	"github.com/wgdzlh/rastercrop/utils"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

var (
	background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	foreground = color.NRGBA{A: 255}
)

type MapOptions struct {
	Rows      int
	Cols      int
	Title     string
	Subtitles []string // 第一行各图的标题
	Labels    []string // 第一列各图的标签
	Palette   string   // 默认viridis
	Colorbar  string   // last、all或global
	Band      int      // 从1开始，默认1
	CellSize  int      // 单幅图的边长（像素），默认240
}

func (o MapOptions) withDefaults() MapOptions {
	if o.Palette == "" {
		o.Palette = DEFAULT_PALETTE
	}
	if o.Band == 0 {
		o.Band = 1
	}
	if o.CellSize <= 0 {
		o.CellSize = DEFAULT_CELL_SIZE
	}
	return o
}

// 图面布局
type layout struct {
	opts     MapOptions
	labelW   int
	top      int // 第一行图的上边
	barAfter func(col int) bool
	width    int
	height   int
}

func newLayout(o MapOptions) (l layout, err error) {
	o = o.withDefaults()
	l.opts = o
	switch o.Colorbar {
	case COLORBAR_LAST:
		l.barAfter = func(col int) bool { return col == o.Cols-1 }
	case COLORBAR_ALL:
		l.barAfter = func(int) bool { return true }
	case COLORBAR_GLOBAL:
		l.barAfter = func(int) bool { return false }
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownColorbar, o.Colorbar)
		return
	}
	for _, s := range o.Labels {
		l.labelW = max(l.labelW, textWidth(s)+LABEL_PADDING)
	}
	l.top = MARGIN
	if o.Title != "" {
		l.top += TITLE_SPACE
	}
	if len(o.Subtitles) > 0 {
		l.top += SUBTITLE_SPACE
	}
	l.width = 2*MARGIN + l.labelW
	for c := 0; c < o.Cols; c++ {
		l.width += o.CellSize
		if l.barAfter(c) {
			l.width += BAR_SPACE
		}
	}
	l.height = l.top + o.Rows*o.CellSize + MARGIN
	if o.Colorbar == COLORBAR_GLOBAL {
		l.height += GLOBAL_SPACE
	}
	return
}

// 第row行第col列图格的左上角
func (l layout) cell(row, col int) image.Point {
	x := MARGIN + l.labelW
	for c := 0; c < col; c++ {
		x += l.opts.CellSize
		if l.barAfter(c) {
			x += BAR_SPACE
		}
	}
	return image.Pt(x, l.top+row*l.opts.CellSize)
}

// Size 返回按选项绘制的图像尺寸
func (o MapOptions) Size() (width, height int, err error) {
	l, err := newLayout(o)
	if err != nil {
		return
	}
	return l.width, l.height, nil
}

// 将单波段像元着色为图像，无效像元透明
func render(arr rastercrop.Array, norm BoundaryNorm, ramp []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, arr.Cols, arr.Rows))
	data, mask := arr.Band(0)
	for r := 0; r < arr.Rows; r++ {
		for c := 0; c < arr.Cols; c++ {
			i := r*arr.Cols + c
			if mask[i] {
				continue
			}
			img.SetNRGBA(c, r, ramp[norm.Index(data[i])])
		}
	}
	return img
}

// 按比例缩放到边长不超过size，最近邻采样以保留像元边界
func fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	if w >= h {
		h = max(h*size/w, 1)
		w = size
	} else {
		w = max(w*size/h, 1)
		h = size
	}
	return transform.Resize(img, w, h, transform.NearestNeighbor)
}

// Maps 以全部栅格的全局最小最大值划分10级色标，将各栅格绘制在Rows×Cols的网格中
func Maps(tb *rastercrop.Toolbox, rasters []string, opts MapOptions) (fig *image.NRGBA, err error) {
	l, err := newLayout(opts)
	if err != nil {
		return
	}
	o := l.opts
	if len(rasters) > o.Rows*o.Cols {
		err = fmt.Errorf("%w: %d rasters, %dx%d grid", ErrGridTooSmall, len(rasters), o.Rows, o.Cols)
		return
	}
	ramp, err := Palette(o.Palette)
	if err != nil {
		return
	}
	vr, err := tb.MinMax(rasters, o.Band)
	if err != nil {
		return
	}
	norm := NewBoundaryNorm(vr, NUM_BOUNDS, RAMP_SIZE)
	fig = imaging.New(l.width, l.height, background)
	inner := o.CellSize - 2*PANEL_PADDING
	var res rastercrop.MaskResult
	for i, raster := range rasters {
		if res, err = tb.ReadBand(raster, o.Band); err != nil {
			return
		}
		row, col := i/o.Cols, i%o.Cols
		panel := fit(render(res.Array, norm, ramp), inner)
		pb := panel.Bounds()
		at := l.cell(row, col).Add(image.Pt(PANEL_PADDING+(inner-pb.Dx())/2, PANEL_PADDING+(inner-pb.Dy())/2))
		fig = imaging.Overlay(fig, panel, at, 1)
		if l.barAfter(col) {
			drawVerticalBar(fig, l.cell(row, col).Add(image.Pt(o.CellSize+BAR_GAP, PANEL_PADDING)), inner, norm, ramp)
		}
	}
	if o.Colorbar == COLORBAR_GLOBAL && len(rasters) > 0 {
		barW := l.width * GLOBAL_BAR_PCT / 100
		drawHorizontalBar(fig, image.Pt((l.width-barW)/2, l.top+o.Rows*o.CellSize+BAR_GAP), barW, norm, ramp)
	}
	annotate(fig, l)
	log.Info(LOG_TAG+"maps done", zap.Int("rasters", len(rasters)), zap.Int("width", l.width), zap.Int("height", l.height),
		zap.Float64("min", vr.Min), zap.Float64("max", vr.Max))
	return
}

// 绘制总标题、第一行的子标题和第一列的标签
func annotate(fig *image.NRGBA, l layout) {
	o := l.opts
	y := MARGIN
	if o.Title != "" {
		drawTextCentered(fig, l.width/2, y+(TITLE_SPACE-textHeight())/2, o.Title, foreground)
		y += TITLE_SPACE
	}
	for c, s := range o.Subtitles {
		if c >= o.Cols {
			break
		}
		drawTextCentered(fig, l.cell(0, c).X+o.CellSize/2, y+(SUBTITLE_SPACE-textHeight())/2, s, foreground)
	}
	for r, s := range o.Labels {
		if r >= o.Rows {
			break
		}
		drawText(fig, MARGIN, l.cell(r, 0).Y+(o.CellSize-textHeight())/2, s, foreground)
	}
}

// Save 按扩展名确定格式保存图像，并创建所在目录
func Save(img image.Image, path string) (err error) {
	if err = utils.EnsureParentDir(path, rastercrop.DEFAULT_DIR_PERM); err != nil {
		return
	}
	if err = imaging.Save(img, path); err != nil {
		log.Error(LOG_TAG+"save figure failed", zap.String("path", path), zap.Error(err))
	}
	return
}
