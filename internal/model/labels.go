package model

import (
	"strconv"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// DefaultLabeler renders "#<1-based position> <lowercased type name>", e.g.
// "#1 datetime".
func DefaultLabeler(position int, kind timeline.Kind) string {
	return "#" + strconv.Itoa(position+1) + " " + kind.Lower()
}
