package plot

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

func textHeight() int {
	return face.Metrics().Height.Ceil()
}

// 在(x, y)处绘制文字，y为文字顶端
func drawText(dst draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// 以cx为中心水平居中绘制文字
func drawTextCentered(dst draw.Image, cx, y int, s string, c color.Color) {
	drawText(dst, cx-textWidth(s)/2, y, s, c)
}
