package rastercrop

import (
	"errors"
	"math"
	"testing"

	"github.com/airbusgeo/godal"
)

func TestSameSRS(t *testing.T) {
	InitGdal()
	cases := []struct {
		a, b string
		want bool
	}{
		{"", "EPSG:4326", true},
		{wgs84WKT, "", true},
		{wgs84WKT, wgs84WKT, true},
		{"EPSG:4326", "EPSG:3857", false},
		{"EPSG:3857", "+proj=longlat +datum=WGS84 +no_defs", false},
	}
	for _, c := range cases {
		same, err := sameSRS(c.a, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if same != c.want {
			t.Errorf("%q vs %q: got %v", c.a, c.b, same)
		}
	}
	if _, err := sameSRS("EPSG:4326", "not a crs"); !errors.Is(err, ErrInvalidCRS) {
		t.Errorf("got %v, want ErrInvalidCRS", err)
	}
}

func TestTransformWKB(t *testing.T) {
	g := newTestToolbox(t)
	pt, err := godal.NewGeometryFromWKT("POINT (180 0)", nil)
	if err != nil {
		t.Fatal(err)
	}
	wkb, err := pt.WKB()
	pt.Close()
	if err != nil {
		t.Fatal(err)
	}
	r, err := newReprojector("EPSG:4326", "EPSG:3857")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()
	out, err := g.transformWKB(wkb, r)
	if err != nil {
		t.Fatal(err)
	}
	geo, err := godal.NewGeometryFromWKB(out, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer geo.Close()
	b, err := geo.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	// 经度在前：(180, 0)转换到Web墨卡托为(20037508.34, 0)
	if math.Abs(b[0]-20037508.34) > 1 || math.Abs(b[1]) > 1e-6 {
		t.Errorf("got %v", b)
	}
}

func TestReprojectorNoop(t *testing.T) {
	g := newTestToolbox(t)
	r, err := newReprojector("", wgs84WKT)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()
	in := GdalGeo{1, 2, 3}
	out, err := g.transformWKB(in, r)
	if err != nil || &out[0] != &in[0] {
		t.Errorf("got %v, %v", out, err)
	}
}
