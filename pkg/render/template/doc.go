// Package template defines the renderer-agnostic template interface. The
// pongo2-backed implementation lives in the gotemplate subpackage.
package template
