// Package cli implements the panocube command line.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gogpu/panocube"
)

// NewRootCmd builds the panocube command tree.
func NewRootCmd(version string) *cobra.Command {
	if version == "" {
		version = panocube.Version
	}

	root := &cobra.Command{
		Use:     "panocube",
		Version: version,
		Short:   "Convert equirectangular panoramas into cube faces and krpano tiles",
		Long: `panocube projects a full-sphere equirectangular JPEG onto the six faces
of a cube and packages the result as a zip archive for krpano:

  cube   six pano_<face>.jpg images
  tiles  a multi-resolution tile pyramid per face
  all    both

Every archive also holds a blurred preview strip and a thumbnail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newConvertCmd(panocube.ModeCube, "Emit six cube face images"),
		newConvertCmd(panocube.ModeTiles, "Emit a krpano multires tile pyramid"),
		newConvertCmd(panocube.ModeCubeAndTiles, "Emit cube face images and a tile pyramid"),
	)
	return root
}

// Execute runs the command line until completion or interrupt.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCmd(version).ExecuteContext(ctx)
}
