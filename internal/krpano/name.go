package krpano

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// idLen is the number of id characters kept in directory names.
const idLen = 8

// DirName returns the per-panorama directory name, pano_<id>.tiles, using
// the first eight characters of id with dashes removed.
func DirName(id string) string {
	return "pano_" + shortID(id) + ".tiles"
}

// SceneName returns a krpano scene name for title, unique per id. krpano
// scene names are lowercase and must not start with a digit, so the name is
// scene_<slug>_<id>, or scene_pano_<id> when title has no usable characters.
func SceneName(title, id string) string {
	slug := Slug(title)
	if slug == "" {
		slug = "pano"
	}
	return "scene_" + slug + "_" + shortID(id)
}

// Slug folds s to lowercase ASCII letters, digits and single underscores.
// Accents are stripped; other characters become separators.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Lower(language.Und))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	sep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > idLen {
		id = id[:idLen]
	}
	return strings.ToLower(id)
}
