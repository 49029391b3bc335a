package plot

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

func tickLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// 竖直色标，低值在下，右侧标注各分界值
func drawVerticalBar(dst draw.Image, at image.Point, height int, norm BoundaryNorm, ramp []color.NRGBA) {
	regions := norm.Regions()
	if regions < 1 || height < regions {
		return
	}
	bottom := at.Y + height
	for i := 0; i < regions; i++ {
		y0 := bottom - (i+1)*height/regions
		y1 := bottom - i*height/regions
		fillRect(dst, image.Rect(at.X, y0, at.X+BAR_WIDTH, y1), ramp[norm.RegionIndex(i)])
	}
	strokeRect(dst, image.Rect(at.X, at.Y, at.X+BAR_WIDTH, bottom), foreground)
	th := textHeight()
	for i, b := range norm.Boundaries {
		y := bottom - i*height/regions
		fillRect(dst, image.Rect(at.X+BAR_WIDTH, y, at.X+BAR_WIDTH+3, y+1), foreground)
		drawText(dst, at.X+BAR_WIDTH+5, y-th/2, tickLabel(b), foreground)
	}
}

// 水平色标，低值在左，下方标注最小、中间和最大分界值
func drawHorizontalBar(dst draw.Image, at image.Point, width int, norm BoundaryNorm, ramp []color.NRGBA) {
	regions := norm.Regions()
	if regions < 1 || width < regions {
		return
	}
	for i := 0; i < regions; i++ {
		x0 := at.X + i*width/regions
		x1 := at.X + (i+1)*width/regions
		fillRect(dst, image.Rect(x0, at.Y, x1, at.Y+GLOBAL_BAR_H), ramp[norm.RegionIndex(i)])
	}
	strokeRect(dst, image.Rect(at.X, at.Y, at.X+width, at.Y+GLOBAL_BAR_H), foreground)
	y := at.Y + GLOBAL_BAR_H + 3
	for _, i := range []int{0, regions / 2, regions} {
		x := at.X + i*width/regions
		fillRect(dst, image.Rect(x, at.Y+GLOBAL_BAR_H, x+1, y), foreground)
		drawTextCentered(dst, x, y, tickLabel(norm.Boundaries[i]), foreground)
	}
}
