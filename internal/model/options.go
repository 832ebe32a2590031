package model

import "github.com/goliatone/go-timelineform/pkg/timeline"

// Labeler produces a field label from the zero-based position and kind.
type Labeler func(position int, kind timeline.Kind) string

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler Labeler
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}
