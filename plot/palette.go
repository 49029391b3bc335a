package plot

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	RAMP_SIZE       = 256
	REVERSED_SUFFIX = "_r"
)

// 色带锚点，按从低到高排列
var paletteAnchors = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"rdylgn":  {"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837"},
	"gray":    {"#000000", "#ffffff"},
}

// Palette 返回名称对应的256色色带，名称加"_r"后缀为反向色带
func Palette(name string) (ramp []color.NRGBA, err error) {
	key := strings.ToLower(strings.TrimSpace(name))
	reversed := strings.HasSuffix(key, REVERSED_SUFFIX)
	key = strings.TrimSuffix(key, REVERSED_SUFFIX)
	hexes, ok := paletteAnchors[key]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownPalette, name)
		return
	}
	anchors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		if anchors[i], err = colorful.Hex(h); err != nil {
			return
		}
	}
	ramp = interpolate(anchors, RAMP_SIZE)
	if reversed {
		for i, j := 0, len(ramp)-1; i < j; i, j = i+1, j-1 {
			ramp[i], ramp[j] = ramp[j], ramp[i]
		}
	}
	return
}

// 在Lab空间中按锚点插值n个颜色
func interpolate(anchors []colorful.Color, n int) []color.NRGBA {
	ramp := make([]color.NRGBA, n)
	segments := len(anchors) - 1
	for i := range ramp {
		t := float64(i) / float64(n-1) * float64(segments)
		seg := min(int(t), segments-1)
		c := anchors[seg].BlendLab(anchors[seg+1], t-float64(seg)).Clamped()
		r, g, b := c.RGB255()
		ramp[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return ramp
}
