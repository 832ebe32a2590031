package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timelineform/pkg/prediction"
	"github.com/goliatone/go-timelineform/pkg/submission"
)

// RenderOptions carry per-request data renderers use without mutating the
// form model.
type RenderOptions struct {
	// Title and Description head the form. Description is trusted HTML that
	// has already been sanitised by the configuration loader.
	Title       string
	Description string
	// Action is the URL the form posts to.
	Action string
	// Intent is the intent the session will use if no button says otherwise.
	Intent submission.Intent
	// Values pre-populates controls keyed by field name.
	Values map[string]string
	// Errors surfaces field validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the fields, e.g. a failed service call.
	FormErrors []string
	// Hidden adds hidden inputs such as a CSRF token.
	Hidden map[string]string
	// Prediction is the last successful prediction of the session, if any.
	Prediction *prediction.Snapshot
	// LiveURL, when set, is a websocket endpoint pushing prediction snapshots.
	LiveURL string
	// Theme carries go-theme tokens and asset resolution.
	Theme *theme.RendererConfig
}
