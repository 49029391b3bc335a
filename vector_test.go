package rastercrop

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/rastercrop/utils"
)

func TestFeatures(t *testing.T) {
	g := newTestToolbox(t)
	path := writeTestFile(t, filepath.Join(t.TempDir(), "regions.geojson"), regionsGeoJSON)

	feats := collect(t, g.Features(path, Layer{}))
	if len(feats) != 2 {
		t.Fatalf("got %d features", len(feats))
	}
	wantCodes := []int64{5, 2}
	wantRegions := []string{"North", "South"}
	for i, f := range feats {
		if f.Properties["code"] != wantCodes[i] {
			t.Errorf("%d: code %#v", i, f.Properties["code"])
		}
		if f.Properties["region"] != wantRegions[i] {
			t.Errorf("%d: region %#v", i, f.Properties["region"])
		}
		if len(f.Geom) == 0 {
			t.Errorf("%d: empty geometry", i)
		}
		if f.SRS == "" {
			t.Errorf("%d: empty srs", i)
		}
	}
}

func TestPropertiesAndGeometries(t *testing.T) {
	g := newTestToolbox(t)
	path := writeTestFile(t, filepath.Join(t.TempDir(), "regions.geojson"), regionsGeoJSON)

	props := collect(t, g.Properties(path, LayerName("regions")))
	geoms := collect(t, g.Geometries(path, LayerIndex(0)))
	if len(props) != 2 || len(geoms) != 2 {
		t.Fatalf("got %d properties, %d geometries", len(props), len(geoms))
	}
	if props[1]["region"] != "South" {
		t.Errorf("got %v", props[1])
	}
}

func TestFeaturesStopEarly(t *testing.T) {
	g := newTestToolbox(t)
	path := writeTestFile(t, filepath.Join(t.TempDir(), "regions.geojson"), regionsGeoJSON)
	n := 0
	for _, err := range g.Features(path, Layer{}) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		break
	}
	if n != 1 {
		t.Errorf("got %d", n)
	}
	// 中止后数据源已关闭，可以再次完整读取
	if feats := collect(t, g.Features(path, Layer{})); len(feats) != 2 {
		t.Errorf("reread: got %d", len(feats))
	}
}

func TestFeaturesErrors(t *testing.T) {
	g := newTestToolbox(t)
	dir := t.TempDir()
	path := writeTestFile(t, filepath.Join(dir, "regions.geojson"), regionsGeoJSON)

	cases := []struct {
		name string
		path string
		sel  Layer
		opts []VectorOption
		want error
	}{
		{"missing file", filepath.Join(dir, "missing.geojson"), Layer{}, nil, ErrGdalDriverOpen},
		{"layer name", path, LayerName("rivers"), nil, ErrLayerNotFound},
		{"layer index", path, LayerIndex(3), nil, ErrLayerNotFound},
		{"charset", path, Layer{}, []VectorOption{WithEncoding("no-such-charset")}, utils.ErrUnknownCharset},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var errs int
			for _, err := range g.Features(c.path, c.sel, c.opts...) {
				if !errors.Is(err, c.want) {
					t.Fatalf("got %v, want %v", err, c.want)
				}
				errs++
			}
			if errs != 1 {
				t.Errorf("got %d results", errs)
			}
		})
	}
}

func TestFeaturesWithEncoding(t *testing.T) {
	g := newTestToolbox(t)
	path := writeTestFile(t, filepath.Join(t.TempDir(), "regions.geojson"), regionsGeoJSON)
	feats := collect(t, g.Features(path, Layer{}, WithEncoding("UTF-8")))
	if len(feats) != 2 || feats[0].Properties["region"] != "North" {
		t.Errorf("got %v", feats)
	}
}

func TestLayerSRS(t *testing.T) {
	g := newTestToolbox(t)
	path := writeTestFile(t, filepath.Join(t.TempDir(), "regions.geojson"), regionsGeoJSON)
	srs, err := g.LayerSRS(path, Layer{})
	if err != nil {
		t.Fatal(err)
	}
	if srs == "" {
		t.Error("empty layer srs")
	}
}

func TestLayerString(t *testing.T) {
	if s := LayerIndex(2).String(); s != "2" {
		t.Errorf("index: got %q", s)
	}
	if s := LayerName("regions").String(); s != "regions" {
		t.Errorf("name: got %q", s)
	}
}
