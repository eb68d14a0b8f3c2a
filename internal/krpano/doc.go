// Package krpano generates the krpano viewer markup for a converted
// panorama: the scene element, the image element for cube faces or a
// multires tile pyramid, and the document wrapper of a virtual tour.
//
// Generated URLs are relative to the tour root and point into
// panos/<dir>/, the layout the archive package writes.
package krpano
