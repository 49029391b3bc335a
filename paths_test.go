package rastercrop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveOutput(t *testing.T) {
	cases := []struct {
		name  string
		input string
		opts  OutputOptions
		want  string
	}{
		{"keep structure", "data/inputs/south/raster.tif", OutputOptions{KeepStructure: true}, "data/outputs/south/raster.tif"},
		{"flatten", "data/inputs/south/raster.tif", OutputOptions{}, "data/outputs/raster.tif"},
		{"extra at end", "data/inputs/south/raster.tif", OutputOptions{Extra: "_south"}, "data/outputs/raster_south.tif"},
		{"extra at begin", "data/inputs/south/raster.tif", OutputOptions{Extra: "south_", Begin: true}, "data/outputs/south_raster.tif"},
		{"extension", "data/inputs/south/raster.tif", OutputOptions{Extension: ".asc"}, "data/outputs/raster.asc"},
		{"extension without dot", "data/inputs/raster.tif", OutputOptions{Extension: "asc", Extra: "_x"}, "data/outputs/raster_x.asc"},
		{"keep structure at root", "data/inputs/raster.tif", OutputOptions{KeepStructure: true}, "data/outputs/raster.tif"},
		{"double extension", "data/inputs/raster.tar.gz", OutputOptions{Extra: "_a"}, "data/outputs/raster.tar_a.gz"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ResolveOutput(c.input, "data/inputs", "data/outputs", c.opts)
			if err != nil {
				t.Fatal(err)
			}
			if want := filepath.FromSlash(c.want); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestResolveOutputOutsideRoot(t *testing.T) {
	_, err := ResolveOutput("other/raster.tif", "data/inputs", "data/outputs", OutputOptions{KeepStructure: true})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("got %v, want ErrInvalidPath", err)
	}
	// 平铺时不要求位于输入目录下
	if _, err = ResolveOutput("other/raster.tif", "data/inputs", "data/outputs", OutputOptions{}); err != nil {
		t.Fatal(err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"regions.shp", "b.tif", "a.tif", "notes.txt", "output/z.tif", "output/deep/c.tif", "alpha/d.tif"} {
		writeTestFile(t, filepath.Join(root, f), "")
	}
	got := collect(t, Find(root, "*.tif", false))
	want := []string{"a.tif", "b.tif", "alpha/d.tif", "output/z.tif", "output/deep/c.tif"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if w := filepath.Join(root, want[i]); got[i] != w {
			t.Errorf("%d: got %q, want %q", i, got[i], w)
		}
	}

	shp := collect(t, Find(root, "*.shp", false))
	if len(shp) != 1 || shp[0] != filepath.Join(root, "regions.shp") {
		t.Errorf("shp: got %v", shp)
	}
}

func TestFindSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.tif"), "")
	writeTestFile(t, filepath.Join(root, "sub", "c.tif"), "")
	links := map[string]string{
		"link.tif":     filepath.Join(root, "a.tif"),
		"dangling.tif": filepath.Join(root, "missing.tif"),
		"linkdir.tif":  filepath.Join(root, "sub"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Skipf("symlink not supported: %v", err)
		}
	}
	got := collect(t, Find(root, "*.tif", false))
	// 指向文件的链接计入结果，悬空链接和指向目录的链接被跳过
	want := []string{"a.tif", "link.tif", "sub/c.tif"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if w := filepath.Join(root, filepath.FromSlash(want[i])); got[i] != w {
			t.Errorf("%d: got %q, want %q", i, got[i], w)
		}
	}
}

func TestFindRelativeAndAbsolute(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "data", "x.tif"), "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	rel := collect(t, Find("data", "*.tif", false))
	if len(rel) != 1 || rel[0] != filepath.Join("data", "x.tif") {
		t.Errorf("relative: got %v", rel)
	}
	abs := collect(t, Find("data", "*.tif", true))
	if len(abs) != 1 || !filepath.IsAbs(abs[0]) || filepath.Base(abs[0]) != "x.tif" {
		t.Errorf("absolute: got %v", abs)
	}
}

func TestFindStopEarly(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"a.tif", "b.tif", "sub/c.tif"} {
		writeTestFile(t, filepath.Join(root, f), "")
	}
	n := 0
	for _, err := range Find(root, "*.tif", false) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("got %d", n)
	}
}

func TestFindMissingRoot(t *testing.T) {
	var errs int
	for _, err := range Find(filepath.Join(t.TempDir(), "missing"), "*", false) {
		if err == nil {
			t.Fatal("want error")
		}
		errs++
	}
	if errs != 1 {
		t.Errorf("got %d errors", errs)
	}
}
