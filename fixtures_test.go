package rastercrop

import (
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/airbusgeo/godal"
	"go.uber.org/zap/zaptest"
)

const (
	wgs84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`

	testNoData = -9999.0

	// 两个要素：North覆盖第1~3行第1~3列，South覆盖第5~8行第5~8列
	regionsGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"code":5,"region":"North"},"geometry":{"type":"Polygon","coordinates":[[[1,6],[4,6],[4,9],[1,9],[1,6]]]}},
{"type":"Feature","properties":{"code":2,"region":"South"},"geometry":{"type":"Polygon","coordinates":[[[5,1],[9,1],[9,5],[5,5],[5,1]]]}}
]}`
	farGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"code":9,"region":"Far"},"geometry":{"type":"Polygon","coordinates":[[[20,20],[25,20],[25,25],[20,25],[20,20]]]}}
]}`
)

var testTransform = [6]float64{0, 1, 0, 10, 0, -1}

type rasterFixture struct {
	width, height int
	transform     [6]float64
	crs           string
	nodata        *float64
	bandNoData    []float64 // 各波段不同的nodata，非空时替代nodata
	bands         [][]float64
}

// 10x10单波段栅格，像元值为row*10+col+offset，(2,2)为nodata
func gridFixture(offset float64) rasterFixture {
	nd := testNoData
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i) + offset
	}
	data[2*10+2] = nd
	return rasterFixture{width: 10, height: 10, transform: testTransform, nodata: &nd, bands: [][]float64{data}}
}

func newTestToolbox(t *testing.T) *Toolbox {
	t.Helper()
	log.SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { log.SetLogger(nil) })
	return NewToolbox(t.TempDir())
}

func writeTestRaster(t *testing.T, path string, fx rasterFixture) string {
	t.Helper()
	InitGdal()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	ds, err := godal.Create(godal.GTiff, path, len(fx.bands), godal.Float64, fx.width, fx.height)
	if err != nil {
		t.Fatal(err)
	}
	if err = ds.SetGeoTransform(fx.transform); err != nil {
		t.Fatal(err)
	}
	if fx.crs != "" {
		if err = ds.SetProjection(fx.crs); err != nil {
			t.Fatal(err)
		}
	}
	for i, band := range ds.Bands() {
		if fx.bandNoData != nil {
			if err = band.SetNoData(fx.bandNoData[i]); err != nil {
				t.Fatal(err)
			}
		} else if fx.nodata != nil {
			if err = band.SetNoData(*fx.nodata); err != nil {
				t.Fatal(err)
			}
		}
		if err = band.Write(0, 0, fx.bands[i], fx.width, fx.height); err != nil {
			t.Fatal(err)
		}
	}
	if err = ds.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collect[T any](t *testing.T, seq iter.Seq2[T, error]) (out []T) {
	t.Helper()
	for v, err := range seq {
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, v)
	}
	return
}
