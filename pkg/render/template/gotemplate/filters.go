package gotemplate

import (
	"encoding/json"
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("prettyjson") {
		_ = pongo2.RegisterFilter("prettyjson", filterPrettyJSON)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterPrettyJSON renders its input as indented JSON. The output is still
// escaped by autoescape, which is what a <pre> block wants.
func filterPrettyJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	payload, err := json.MarshalIndent(in.Interface(), "", "  ")
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:prettyjson", OrigError: err}
	}
	return pongo2.AsValue(string(payload)), nil
}
