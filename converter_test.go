package panocube

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/panocube/internal/cube"
	"github.com/gogpu/panocube/internal/image"
)

func grayPanorama(w, h int, gray uint8) *Panorama {
	img := stdimage.NewGray(stdimage.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = gray
	}
	return NewPanorama(img)
}

func decodeJPEG(t *testing.T, data []byte) stdimage.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode() error = %v", err)
	}
	return img
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// recorder collects state transitions.
type recorder struct {
	states []State
}

func (r *recorder) observe(_, to State) {
	r.states = append(r.states, to)
}

// =============================================================================
// Scenario Tests
// =============================================================================

func TestMakeCube_UniformGray(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size conversion")
	}

	const gray = 128
	conv := New(WithCubeSize(2048))
	res, err := conv.MakeCube(context.Background(), grayPanorama(4096, 2048, gray))
	if err != nil {
		t.Fatalf("MakeCube() error = %v", err)
	}

	if len(res.Cube) != 6 {
		t.Fatalf("len(Cube) = %d, want 6", len(res.Cube))
	}
	if res.Tiles != nil || res.Levels != nil {
		t.Error("cube mode should not emit tiles or levels")
	}

	var paths []string
	for _, ci := range res.Cube {
		paths = append(paths, ci.Path)

		img := decodeJPEG(t, ci.Data)
		if b := img.Bounds(); b.Dx() != 2048 || b.Dy() != 2048 {
			t.Fatalf("%s bounds = %v, want 2048x2048", ci.Path, b)
		}
		for y := 0; y < 2048; y += 61 {
			for x := 0; x < 2048; x += 67 {
				c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				if absDiff(uint32(c.Y), gray) > 2 {
					t.Fatalf("%s pixel (%d,%d) = %d, want %d", ci.Path, x, y, c.Y, gray)
				}
			}
		}
	}

	want := []string{"pano_f.jpg", "pano_b.jpg", "pano_l.jpg", "pano_r.jpg", "pano_u.jpg", "pano_d.jpg"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("cube paths mismatch (-want +got):\n%s", diff)
	}

	if b := decodeJPEG(t, res.Preview).Bounds(); b.Dx() != 256 || b.Dy() != 1536 {
		t.Errorf("preview bounds = %v, want 256x1536", b)
	}
	if b := decodeJPEG(t, res.Thumbnail).Bounds(); b.Dx() != 240 || b.Dy() != 240 {
		t.Errorf("thumbnail bounds = %v, want 240x240", b)
	}
}

func TestMakeTiles(t *testing.T) {
	conv := New(WithKernel(KernelLinear), WithWorkers(3))
	res, err := conv.MakeTiles(context.Background(), grayPanorama(2000, 1000, 90))
	if err != nil {
		t.Fatalf("MakeTiles() error = %v", err)
	}

	if res.FaceEdge != 640 {
		t.Errorf("FaceEdge = %d, want 640", res.FaceEdge)
	}
	if diff := cmp.Diff([]LevelConfig{{Level: 1, Size: 640}}, res.Levels); diff != "" {
		t.Errorf("Levels mismatch (-want +got):\n%s", diff)
	}
	if res.Cube != nil {
		t.Error("tiles mode should not emit cube images")
	}

	// 640 px => 2x2 grid per face.
	if len(res.Tiles) != 6*4 {
		t.Fatalf("len(Tiles) = %d, want 24", len(res.Tiles))
	}
	wantFirst := []string{"f/l1/1/l1_f_1_1.jpg", "f/l1/1/l1_f_1_2.jpg", "f/l1/2/l1_f_2_1.jpg", "f/l1/2/l1_f_2_2.jpg"}
	var gotFirst []string
	for _, tl := range res.Tiles[:4] {
		gotFirst = append(gotFirst, tl.Path)
	}
	if diff := cmp.Diff(wantFirst, gotFirst); diff != "" {
		t.Errorf("front tile paths mismatch (-want +got):\n%s", diff)
	}
	if got := res.Tiles[len(res.Tiles)-1].Path; got != "d/l1/2/l1_d_2_2.jpg" {
		t.Errorf("last tile path = %q, want d/l1/2/l1_d_2_2.jpg", got)
	}

	last := res.Tiles[3]
	if last.Width != 128 || last.Height != 128 {
		t.Errorf("partial tile = %dx%d, want 128x128", last.Width, last.Height)
	}
	if b := decodeJPEG(t, last.Data).Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("decoded partial tile bounds = %v", b)
	}
}

func TestMakeCubeAndTiles(t *testing.T) {
	conv := New(WithCubeSize(64), WithMaxCubeFaceEdge(32))
	res, err := conv.MakeCubeAndTiles(context.Background(), grayPanorama(1024, 512, 200))
	if err != nil {
		t.Fatalf("MakeCubeAndTiles() error = %v", err)
	}
	// Tiling ignores the cube-only cap.
	if res.FaceEdge != 327 {
		t.Errorf("FaceEdge = %d, want 327", res.FaceEdge)
	}
	if len(res.Cube) != 6 || len(res.Tiles) != 6 {
		t.Errorf("got %d cube images and %d tiles, want 6 and 6", len(res.Cube), len(res.Tiles))
	}
	if b := decodeJPEG(t, res.Cube[0].Data).Bounds(); b.Dx() != 64 {
		t.Errorf("cube image width = %d, want 64", b.Dx())
	}
	if res.Mode != ModeCubeAndTiles || res.Duration <= 0 {
		t.Errorf("Mode = %v, Duration = %v", res.Mode, res.Duration)
	}
}

func TestMakeCube_CapsFaceEdge(t *testing.T) {
	conv := New(WithCubeSize(16), WithMaxCubeFaceEdge(40))
	res, err := conv.MakeCube(context.Background(), grayPanorama(512, 256, 10))
	if err != nil {
		t.Fatal(err)
	}
	if res.FaceEdge != 40 {
		t.Errorf("FaceEdge = %d, want 40", res.FaceEdge)
	}
}

// =============================================================================
// State Machine Tests
// =============================================================================

func TestStates(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want []State
	}{
		{"cube", ModeCube, []State{StateValidating, StateProjecting, StateSkipped, StateComposing, StateDone}},
		{"tiles", ModeTiles, []State{StateValidating, StateProjecting, StateTiling, StateComposing, StateDone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			conv := New(WithStateObserver(rec.observe), WithCubeSize(16))
			if _, err := conv.run(context.Background(), grayPanorama(256, 128, 50), tt.mode); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, rec.states); diff != "" {
				t.Errorf("states mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if StateTiling.String() != "Tiling" || State(99).String() != "Unknown" {
		t.Errorf("String() = %q, %q", StateTiling, State(99))
	}
	if !StateFailed.IsTerminal() || StateComposing.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}
}

func TestUnknownMode(t *testing.T) {
	rec := &recorder{}
	conv := New(WithStateObserver(rec.observe))
	_, err := conv.run(context.Background(), grayPanorama(64, 32, 1), Mode(9))
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("run() error = %v, want ErrUnknownMode", err)
	}
	if diff := cmp.Diff([]State{StateFailed}, rec.states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestPlatformLimit(t *testing.T) {
	rec := &recorder{}
	conv := New(WithMaxPanoramaWidth(1000), WithStateObserver(rec.observe))

	_, err := conv.MakeTiles(context.Background(), grayPanorama(2000, 1000, 1))
	var ple *PlatformLimitError
	if !errors.As(err, &ple) {
		t.Fatalf("MakeTiles() error = %v, want *PlatformLimitError", err)
	}
	if ple.Width != 2000 || ple.Limit != 1000 {
		t.Errorf("PlatformLimitError = %+v", ple)
	}
	if diff := cmp.Diff([]State{StateValidating, StateFailed}, rec.states); diff != "" {
		t.Errorf("projection must not start (-want +got):\n%s", diff)
	}
}

func TestInputErrors(t *testing.T) {
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, stdimage.NewGray(stdimage.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}
	pngPano, err := DecodePanorama(&pngData)
	if err != nil {
		t.Fatalf("DecodePanorama(png) error = %v", err)
	}

	tests := []struct {
		name string
		pano *Panorama
	}{
		{"nil", nil},
		{"png", pngPano},
		{"too wide", grayPanorama(MaxInputWidth+2, 1, 0)},
		{"empty", NewPanorama(stdimage.NewGray(stdimage.Rect(0, 0, 0, 0)))},
	}
	conv := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conv.MakeCube(context.Background(), tt.pano)
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Errorf("MakeCube() error = %v, want *InputError", err)
			}
		})
	}
}

func TestDecodePanorama(t *testing.T) {
	buf, _ := image.NewImageBuf(64, 32)
	buf.Fill(30, 60, 90, 255)
	data, err := buf.EncodeToJPEGBytes(DefaultQuality)
	if err != nil {
		t.Fatal(err)
	}

	p, err := DecodePanorama(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePanorama() error = %v", err)
	}
	if p.Width() != 64 || p.Height() != 32 || p.Format() != FormatJPEG {
		t.Errorf("DecodePanorama() = %dx%d %q", p.Width(), p.Height(), p.Format())
	}

	_, err = DecodePanorama(bytes.NewReader([]byte("not an image")))
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Errorf("DecodePanorama(garbage) error = %v, want *InputError", err)
	}
}

func TestProjectionFailure(t *testing.T) {
	boom := errors.New("sampler exploded")
	rec := &recorder{}
	conv := New(WithWorkers(2), WithStateObserver(rec.observe))
	conv.projector.Render = func(ctx context.Context, src *image.ImageBuf, face cube.Face, edge int, k image.Kernel) (*image.ImageBuf, error) {
		if face == cube.Up {
			return nil, boom
		}
		return cube.ProjectFace(ctx, src, face, edge, k)
	}

	res, err := conv.MakeCube(context.Background(), grayPanorama(256, 128, 1))
	if res != nil {
		t.Error("MakeCube() returned a result on failure")
	}
	var pf *ProjectionFailure
	if !errors.As(err, &pf) || pf.Face != "up" {
		t.Fatalf("MakeCube() error = %v, want *ProjectionFailure for up", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("ProjectionFailure should unwrap to the cause")
	}
	if diff := cmp.Diff([]State{StateValidating, StateProjecting, StateFailed}, rec.states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestCubeImageFailure_DuringComposing(t *testing.T) {
	rec := &recorder{}
	conv := New(WithStateObserver(rec.observe))
	conv.opts.cubeSize = -1

	if _, err := conv.MakeCube(context.Background(), grayPanorama(256, 128, 1)); err == nil {
		t.Fatal("MakeCube() with an invalid cube size should fail")
	}
	want := []State{StateValidating, StateProjecting, StateSkipped, StateComposing, StateFailed}
	if diff := cmp.Diff(want, rec.states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().MakeTiles(ctx, grayPanorama(512, 256, 1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MakeTiles() error = %v, want context.Canceled", err)
	}
}

// =============================================================================
// Option Tests
// =============================================================================

func TestOptions(t *testing.T) {
	conv := New(
		WithKernel(KernelLanczos),
		WithKernel(Kernel(200)),
		WithWorkers(2),
		WithQuality(400),
		WithCubeSize(-1),
		WithBlurSigma(2.5),
		WithPreviewSize(128),
		WithThumbSize(100),
		WithValidator(nil),
	)
	o := conv.opts
	if o.kernel != KernelLanczos {
		t.Errorf("kernel = %v, want lanczos", o.kernel)
	}
	if conv.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", conv.Workers())
	}
	if o.quality != 100 {
		t.Errorf("quality = %d, want 100", o.quality)
	}
	if o.cubeSize != DefaultCubeSize {
		t.Errorf("cubeSize = %d, want default", o.cubeSize)
	}
	if conv.composer.Sigma != 2.5 || conv.composer.PreviewSize != 128 || conv.composer.ThumbSize != 100 {
		t.Errorf("composer = %+v", conv.composer)
	}
	if _, ok := o.validator.(DefaultValidator); !ok {
		t.Errorf("validator = %T, want DefaultValidator", o.validator)
	}
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel("lanczos")
	if err != nil || k != KernelLanczos {
		t.Errorf("ParseKernel(lanczos) = %v, %v", k, err)
	}
	if _, err := ParseKernel("nearest"); err == nil {
		t.Error("ParseKernel(nearest) should fail")
	}
}
