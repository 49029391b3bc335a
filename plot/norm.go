package plot

import (
	"sort"

	"github.com/wgdzlh/rastercrop"
)

const NUM_BOUNDS = 11

// 分级色标：boundaries划分的区间均匀映射到ncolors个颜色上，
// 低于下界取第一个颜色，不低于上界取最后一个颜色
type BoundaryNorm struct {
	Boundaries []float64
	NColors    int
}

// NewBoundaryNorm 在值域内线性取n个分界点
func NewBoundaryNorm(vr rastercrop.ValueRange, n, ncolors int) BoundaryNorm {
	bounds := make([]float64, n)
	step := (vr.Max - vr.Min) / float64(n-1)
	for i := range bounds {
		bounds[i] = vr.Min + float64(i)*step
	}
	bounds[n-1] = vr.Max
	return BoundaryNorm{Boundaries: bounds, NColors: ncolors}
}

func (b BoundaryNorm) Regions() int {
	return len(b.Boundaries) - 1
}

// Index 返回像元值对应的颜色序号
func (b BoundaryNorm) Index(v float64) int {
	regions := b.Regions()
	// 不大于v的分界点个数减一即所在区间
	bin := sort.Search(len(b.Boundaries), func(i int) bool { return b.Boundaries[i] > v }) - 1
	switch {
	case bin < 0:
		return 0
	case bin >= regions:
		return b.NColors - 1
	case regions == 1:
		return 0
	}
	return bin * (b.NColors - 1) / (regions - 1)
}

// RegionIndex 返回第i个区间的颜色序号
func (b BoundaryNorm) RegionIndex(i int) int {
	regions := b.Regions()
	if regions <= 1 {
		return 0
	}
	return i * (b.NColors - 1) / (regions - 1)
}
