package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gogpu/panocube"
	"github.com/gogpu/panocube/internal/archive"
	"github.com/gogpu/panocube/internal/config"
	"github.com/gogpu/panocube/internal/krpano"
)

// convertFlags holds the flags shared by the conversion commands.
type convertFlags struct {
	output     string
	configPath string
	xml        bool
	verbose    bool

	kernel   string
	workers  int
	quality  int
	sigma    float64
	cubeSize int
	maxWidth int
}

func newConvertCmd(mode panocube.Mode, short string) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   mode.String() + " <input.jpg>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, mode, args[0], f)
		},
	}

	def := config.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output zip file (default <dir>.zip)")
	fl.StringVar(&f.configPath, "config", "", "JSON tuning file")
	fl.BoolVar(&f.xml, "xml", false, "add tour.xml and place the panorama under panos/")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline stages to stderr")
	fl.StringVar(&f.kernel, "kernel", *def.Kernel, "resampling kernel: linear, cubic or lanczos")
	fl.IntVar(&f.workers, "workers", *def.Workers, "faces processed concurrently (2 on low-memory hosts)")
	fl.IntVar(&f.quality, "quality", *def.Quality, "JPEG quality 1-100")
	fl.Float64Var(&f.sigma, "sigma", *def.BlurSigma, "preview blur sigma")
	fl.IntVar(&f.cubeSize, "cube-size", *def.CubeSize, "edge of emitted cube images")
	fl.IntVar(&f.maxWidth, "max-width", *def.MaxPanoramaWidth, "reject panoramas wider than this (0 = no limit)")
	return cmd
}

// tuning resolves defaults, the optional tuning file and explicit flags,
// in increasing priority.
func (f *convertFlags) tuning(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		fileCfg, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	fl := cmd.Flags()
	over := &config.Config{}
	if fl.Changed("kernel") {
		over.Kernel = &f.kernel
	}
	if fl.Changed("workers") {
		over.Workers = &f.workers
	}
	if fl.Changed("quality") {
		over.Quality = &f.quality
	}
	if fl.Changed("sigma") {
		over.BlurSigma = &f.sigma
	}
	if fl.Changed("cube-size") {
		over.CubeSize = &f.cubeSize
	}
	if fl.Changed("max-width") {
		over.MaxPanoramaWidth = &f.maxWidth
	}
	cfg.Merge(over)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, mode panocube.Mode, input string, f *convertFlags) error {
	cfg, err := f.tuning(cmd)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	panocube.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	defer panocube.SetLogger(nil)

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	pano, err := panocube.DecodePanorama(in)
	_ = in.Close()
	if err != nil {
		return err
	}

	conv := panocube.New(cfg.Options()...)
	var res *panocube.ConversionResult
	switch mode {
	case panocube.ModeCube:
		res, err = conv.MakeCube(cmd.Context(), pano)
	case panocube.ModeTiles:
		res, err = conv.MakeTiles(cmd.Context(), pano)
	default:
		res, err = conv.MakeCubeAndTiles(cmd.Context(), pano)
	}
	if err != nil {
		return err
	}

	id := uuid.NewString()
	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := krpano.DirName(id)
	code, err := krpano.Generate(krpano.Scene{
		Name:   krpano.SceneName(title, id),
		Title:  title,
		Dir:    dir,
		Levels: res.Levels,
	}, mode.Cube(), mode.Tiles())
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(dir, ".tiles") + ".zip"
	}
	stats, err := writeArchive(output, dir, res, code, f.xml)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSection(out, title)
	printLabelValue(out, "Mode", mode)
	printLabelValue(out, "Scene", krpano.SceneName(title, id))
	printLabelValue(out, "Directory", dir)
	printLabelValue(out, "Face edge", fmt.Sprintf("%d px", res.FaceEdge))
	if mode.Tiles() {
		printLabelValue(out, "Levels", len(res.Levels))
		printLabelValue(out, "Tiles", humanize.Comma(int64(len(res.Tiles))))
	}
	printLabelValue(out, "Files", stats.files)
	printLabelValue(out, "Content", humanize.Bytes(uint64(stats.content)))
	printLabelValue(out, "Size", humanize.Bytes(uint64(stats.size)))
	printLabelValue(out, "Duration", res.Duration.Round(time.Millisecond))
	if pano.Width() != 2*pano.Height() {
		printWarning(out, fmt.Sprintf("input is %dx%d, not 2:1; faces may look stretched", pano.Width(), pano.Height()))
	}
	printSuccess(out, "wrote "+output)
	return nil
}

// archiveStats describes a written archive.
type archiveStats struct {
	files   int
	content int64 // uncompressed bytes
	size    int64 // zip file size
}

// writeArchive packages res and its krpano markup into a zip file at path.
// With tour set, the panorama is placed under panos/ next to a tour.xml that
// references it.
func writeArchive(path, dir string, res *panocube.ConversionResult, code krpano.Code, tour bool) (archiveStats, error) {
	out, err := os.Create(path)
	if err != nil {
		return archiveStats{}, fmt.Errorf("create output: %w", err)
	}

	w := archive.NewWriter(out, time.Now())
	root := dir
	if tour {
		root = "panos/" + dir
	}
	err = w.AddResult(root, res)
	for _, sn := range code.Snippets() {
		if err != nil {
			break
		}
		err = w.AddFile(root+"/"+sn.Name, []byte(sn.XML))
	}
	if err == nil && tour {
		err = w.AddFile("tour.xml", []byte(krpano.DocumentXML(code.Scene)))
	}
	if err == nil {
		err = w.Close()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return archiveStats{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return archiveStats{}, err
	}
	return archiveStats{files: w.Files(), content: w.Bytes(), size: info.Size()}, nil
}
