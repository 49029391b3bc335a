package rastercrop

import (
	"github.com/airbusgeo/godal"
)

type GdalGeo = []byte // 矢量WKB

// 矢量要素的属性，值为int64、float64、string、time.Time或nil（未赋值）
type Attributes = map[string]any

// 矢量要素
type Feature struct {
	FID        int64
	Properties Attributes
	Geom       GdalGeo // 要素矢量WKB
	SRS        string  // 图层坐标系WKT，可能为空
}

// 栅格元数据
type Profile struct {
	Driver    string
	Width     int
	Height    int
	Count     int
	DataType  godal.DataType
	NoData    *float64
	CRS       string // WKT
	Transform [6]float64
}

// 掩膜后的像元数组，按波段、行、列排列
type Array struct {
	Bands int
	Rows  int
	Cols  int
	Data  []float64
	Mask  []bool // true为无效像元
}

func NewArray(bands, rows, cols int) Array {
	n := bands * rows * cols
	return Array{
		Bands: bands,
		Rows:  rows,
		Cols:  cols,
		Data:  make([]float64, n),
		Mask:  make([]bool, n),
	}
}

func (a Array) Index(band, row, col int) int {
	return (band*a.Rows+row)*a.Cols + col
}

func (a Array) At(band, row, col int) (v float64, valid bool) {
	i := a.Index(band, row, col)
	return a.Data[i], !a.Mask[i]
}

// Band 返回第band个波段（从0开始）的数据和掩膜切片，与原数组共享内存
func (a Array) Band(band int) (data []float64, mask []bool) {
	n := a.Rows * a.Cols
	return a.Data[band*n : (band+1)*n], a.Mask[band*n : (band+1)*n]
}

func (a Array) Valid() (cnt int) {
	for _, m := range a.Mask {
		if !m {
			cnt++
		}
	}
	return
}

func (a Array) Clone() Array {
	b := a
	b.Data = append([]float64(nil), a.Data...)
	b.Mask = append([]bool(nil), a.Mask...)
	return b
}

type MaskResult struct {
	Array   Array
	Profile Profile
}

type BatchResult struct {
	MaskResult
	Raster string // 输入栅格
	Label  string // 要素标签原值
	Output string // 输出文件名
}

// 栅格驱动信息
type DriverRecord struct {
	Code      string
	Name      string
	Extension string
	HelpTopic string
	MimeType  string
}

// 重投影后的仿射变换和尺寸，未重投影时为原栅格的值
type Reprojection struct {
	Transform   [6]float64
	Width       int
	Height      int
	Reprojected bool
}

type ValueRange struct {
	Min float64
	Max float64
}
