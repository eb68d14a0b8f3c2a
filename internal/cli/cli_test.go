package cli

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"

	"github.com/gogpu/panocube"
)

func writeJPEG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	path := filepath.Join(dir, "Sunset Beach.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("1.2.3")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("zip.OpenReader() error = %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"cube", "tiles", "all"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version output = %q, want 1.2.3", out)
	}
}

func TestTilesCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeJPEG(t, dir, 512, 256)
	output := filepath.Join(dir, "out.zip")

	out, err := run(t, "tiles", input, "-o", output, "--xml", "--workers", "2", "--kernel", "linear")
	if err != nil {
		t.Fatalf("tiles error = %v", err)
	}
	for _, want := range []string{"scene_sunset_beach_", "Content", "wrote " + output} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	names := zipNames(t, output)
	var hasTour, hasPreview, tiles int
	markup := map[string]int{}
	for _, n := range names {
		switch {
		case n == "tour.xml":
			hasTour++
		case strings.HasPrefix(n, "panos/pano_") && strings.HasSuffix(n, "/preview.jpg"):
			hasPreview++
		case strings.Contains(n, "/l1/1/l1_"):
			tiles++
		case strings.HasPrefix(n, "panos/pano_") && strings.HasSuffix(n, ".xml"):
			markup[filepath.Base(n)]++
		}
	}
	if hasTour != 1 || hasPreview != 1 {
		t.Errorf("archive entries = %v", names)
	}
	wantMarkup := map[string]int{"scene.xml": 1, "tiles.xml": 1, "tiles_short.xml": 1}
	if diff := cmp.Diff(wantMarkup, markup); diff != "" {
		t.Errorf("markup entries mismatch (-want +got):\n%s", diff)
	}
	// 512 px wide => 128 px faces, one tile per face.
	if tiles != 6 {
		t.Errorf("got %d tiles, want 6: %v", tiles, names)
	}
}

func TestCubeCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeJPEG(t, dir, 256, 128)
	output := filepath.Join(dir, "cube.zip")
	cfgPath := filepath.Join(dir, "tuning.json")
	if err := os.WriteFile(cfgPath, []byte(`{"cube_size": 32, "kernel": "lanczos"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "cube", input, "-o", output, "--config", cfgPath); err != nil {
		t.Fatalf("cube error = %v", err)
	}

	var cubes int
	markup := map[string]int{}
	for _, n := range zipNames(t, output) {
		switch {
		case strings.HasPrefix(n, "panos/") || n == "tour.xml":
			t.Errorf("unexpected tour entry %s without --xml", n)
		case strings.Contains(n, "/pano_") && strings.HasSuffix(n, ".jpg"):
			cubes++
		case strings.HasSuffix(n, ".xml"):
			markup[filepath.Base(n)]++
		}
	}
	if cubes != 6 {
		t.Errorf("got %d cube images, want 6", cubes)
	}
	wantMarkup := map[string]int{"scene.xml": 1, "cube.xml": 1}
	if diff := cmp.Diff(wantMarkup, markup); diff != "" {
		t.Errorf("markup entries mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeJPEG(t, dir, 256, 128)

	pngPath := filepath.Join(dir, "pano.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, stdimage.NewGray(stdimage.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "cube", input, "--kernel", "nearest"); err == nil {
		t.Error("unknown kernel should fail")
	}
	if _, err := run(t, "cube", filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("missing input should fail")
	}
	if _, err := run(t, "cube"); err == nil {
		t.Error("missing argument should fail")
	}

	_, err := run(t, "cube", pngPath, "-o", filepath.Join(dir, "x.zip"))
	var ie *panocube.InputError
	if !errors.As(err, &ie) {
		t.Errorf("png input error = %v, want *InputError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "x.zip")); !os.IsNotExist(statErr) {
		t.Error("no archive should be written for rejected input")
	}

	_, err = run(t, "tiles", input, "--max-width", "100", "-o", filepath.Join(dir, "y.zip"))
	var ple *panocube.PlatformLimitError
	if !errors.As(err, &ple) {
		t.Errorf("max-width error = %v, want *PlatformLimitError", err)
	}
}
