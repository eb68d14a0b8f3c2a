package krpano

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/panocube/internal/level"
)

// Version is the krpano version written into tour documents.
const Version = "1.20.10"

// ErrNoLevels is returned when tile markup is requested without levels.
var ErrNoLevels = errors.New("krpano: tile markup needs at least one level")

// ImageType selects the image element variant.
type ImageType uint8

// Image element variants.
const (
	// Cube references six pano_<face>.jpg images.
	Cube ImageType = iota

	// Tiles lists every level of the multires pyramid.
	Tiles

	// ShortTiles uses the compact multires="512,<sizes>" form.
	ShortTiles
)

// String returns the variant name.
func (t ImageType) String() string {
	switch t {
	case Cube:
		return "cube"
	case Tiles:
		return "tiles"
	case ShortTiles:
		return "short-tiles"
	default:
		return "unknown"
	}
}

// tilePattern is the krpano url pattern matching tile.Path.
const tilePattern = "%s/l%l/%v/l%l_%s_%v_%h.jpg"

// ImageXML returns the image element of the given type for the panorama in
// dir. Levels must be ascending, as the level planner returns them; they
// are ignored for Cube.
func ImageXML(t ImageType, dir string, levels []level.Config) (string, error) {
	base := "panos/" + dir + "/"

	var b strings.Builder
	switch t {
	case Cube:
		b.WriteString("<image>\n")
		fmt.Fprintf(&b, "\t<cube url=\"%s\" />\n", escape(base+"pano_%s.jpg"))
		b.WriteString("</image>")

	case ShortTiles:
		if len(levels) == 0 {
			return "", ErrNoLevels
		}
		sizes := []string{strconv.Itoa(level.TileSize)}
		for _, l := range levels {
			sizes = append(sizes, strconv.Itoa(l.Size))
		}
		b.WriteString("<image>\n")
		fmt.Fprintf(&b, "\t<cube url=\"%s\" multires=\"%s\" />\n", escape(base+tilePattern), strings.Join(sizes, ","))
		b.WriteString("</image>")

	case Tiles:
		if len(levels) == 0 {
			return "", ErrNoLevels
		}
		fmt.Fprintf(&b, "<image type=\"CUBE\" multires=\"true\" tilesize=\"%d\">\n", level.TileSize)
		// Largest level first.
		for i := len(levels) - 1; i >= 0; i-- {
			l := levels[i]
			url := fmt.Sprintf("%s%%s/l%d/%%v/l%d_%%s_%%v_%%h.jpg", base, l.Level, l.Level)
			fmt.Fprintf(&b, "\t<level tiledimagewidth=\"%d\" tiledimageheight=\"%d\">\n", l.Size, l.Size)
			fmt.Fprintf(&b, "\t\t<cube url=\"%s\" />\n", escape(url))
			b.WriteString("\t</level>\n")
		}
		b.WriteString("</image>")

	default:
		return "", fmt.Errorf("krpano: unknown image type %d", t)
	}
	return b.String(), nil
}

// Scene describes one scene element.
type Scene struct {
	// Name is the krpano scene name, see SceneName.
	Name string

	// Title is shown by the tour skin.
	Title string

	// Dir is the panorama directory under panos/.
	Dir string

	// Type selects the image element.
	Type ImageType

	// Levels is the tile pyramid, ascending. Required for tile types.
	Levels []level.Config
}

// SceneXML returns the scene element with default view settings, the
// preview and thumbnail references and the image element.
func SceneXML(s Scene) (string, error) {
	img, err := ImageXML(s.Type, s.Dir, s.Levels)
	if err != nil {
		return "", err
	}

	base := "panos/" + s.Dir + "/"
	var b strings.Builder
	fmt.Fprintf(&b, "<scene name=\"%s\" title=\"%s\" onstart=\"\" thumburl=\"%s\" lat=\"\" lng=\"\" heading=\"\">\n",
		escape(s.Name), escape(s.Title), escape(base+"thumb.jpg"))
	b.WriteString("\t<view hlookat=\"0.0\" vlookat=\"0.0\" fovtype=\"MFOV\" fov=\"120\" maxpixelzoom=\"2.0\" fovmin=\"70\" fovmax=\"140\" limitview=\"auto\" />\n")
	fmt.Fprintf(&b, "\t<preview url=\"%s\" />\n", escape(base+"preview.jpg"))
	for _, line := range strings.Split(img, "\n") {
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString("</scene>")
	return b.String(), nil
}

// DocumentXML wraps scene elements into a krpano tour document that
// includes the default vtour skin.
func DocumentXML(scenes ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<krpano version=\"%s\" title=\"Virtual Tour\">\n", Version)
	b.WriteString("\t<include url=\"skin/vtourskin.xml\" />\n")
	for _, s := range scenes {
		for _, line := range strings.Split(s, "\n") {
			b.WriteString("\t" + line + "\n")
		}
	}
	b.WriteString("</krpano>\n")
	return b.String()
}

// Code bundles the markup produced for one conversion.
type Code struct {
	Scene          string
	CubeImage      string
	TileImage      string
	ShortTileImage string
}

// Generate builds the markup for one panorama. The scene uses the tile
// pyramid when only tiles were produced and the cube images otherwise.
func Generate(s Scene, cube, tiles bool) (Code, error) {
	var code Code
	var err error

	s.Type = Cube
	if tiles && !cube {
		s.Type = Tiles
	}
	if code.Scene, err = SceneXML(s); err != nil {
		return Code{}, err
	}

	if cube {
		if code.CubeImage, err = ImageXML(Cube, s.Dir, nil); err != nil {
			return Code{}, err
		}
	}
	if tiles {
		if code.TileImage, err = ImageXML(Tiles, s.Dir, s.Levels); err != nil {
			return Code{}, err
		}
		if code.ShortTileImage, err = ImageXML(ShortTiles, s.Dir, s.Levels); err != nil {
			return Code{}, err
		}
	}
	return code, nil
}

// Snippet is one named piece of generated markup.
type Snippet struct {
	Name string
	XML  string
}

// Snippets returns the markup pieces that were generated, with the file
// names they are stored under next to the panorama: scene.xml, then
// cube.xml, tiles.xml and tiles_short.xml as the mode provides them.
func (c Code) Snippets() []Snippet {
	all := []Snippet{
		{Name: "scene.xml", XML: c.Scene},
		{Name: "cube.xml", XML: c.CubeImage},
		{Name: "tiles.xml", XML: c.TileImage},
		{Name: "tiles_short.xml", XML: c.ShortTileImage},
	}
	out := all[:0]
	for _, sn := range all {
		if sn.XML != "" {
			out = append(out, sn)
		}
	}
	return out
}

// escape returns s with XML special characters escaped.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
