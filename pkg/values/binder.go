package values

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// datetimeLocalLayouts are the shapes browsers submit for
// <input type="datetime-local">.
var datetimeLocalLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// Binder parses browser form strings into the raw map the tagger consumes.
type Binder struct {
	descriptors []timeline.Descriptor
}

// NewBinder binds a form parser to set.
func NewBinder(set timeline.Set) *Binder {
	return &Binder{descriptors: set.Descriptors()}
}

// Bind reads one value per position from form. It returns the parsed raw
// map only when every position is present and valid; otherwise the map is
// nil and the field errors name each offending position.
func (b *Binder) Bind(form url.Values) (map[int]any, FieldErrors) {
	raw := make(map[int]any, len(b.descriptors))
	errs := FieldErrors{}

	for idx, descriptor := range b.descriptors {
		name := model.FieldName(idx)
		text := strings.TrimSpace(form.Get(name))
		if text == "" {
			errs.Add(name, "is required")
			continue
		}
		value, message := bindOne(descriptor, text)
		if message != "" {
			errs.Add(name, message)
			continue
		}
		raw[idx] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return raw, nil
}

// Echo returns the submitted strings keyed by field name so a re-rendered
// form keeps what the user typed.
func (b *Binder) Echo(form url.Values) map[string]string {
	out := make(map[string]string, len(b.descriptors))
	for idx := range b.descriptors {
		name := model.FieldName(idx)
		if value := form.Get(name); value != "" {
			out[name] = value
		}
	}
	return out
}

func bindOne(descriptor timeline.Descriptor, text string) (any, string) {
	switch descriptor.Type {
	case timeline.KindDatetime:
		return bindDatetime(descriptor.DatetimeFormat(), text)
	case timeline.KindInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, "must be an integer"
		}
		return n, ""
	case timeline.KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, "must be a number"
		}
		return f, ""
	case timeline.KindEnum:
		if !descriptor.HasOption(text) {
			return nil, "must be one of " + strings.Join(descriptor.Options, ", ")
		}
		return text, ""
	default:
		return nil, "has an unsupported type " + strconv.Quote(string(descriptor.Type))
	}
}

// bindDatetime accepts text already in the descriptor format or a browser
// datetime-local value, and always returns the descriptor format.
func bindDatetime(format, text string) (any, string) {
	if _, err := timeline.ParseTime(text, format); err == nil {
		return text, ""
	}
	for _, layout := range datetimeLocalLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		formatted, err := timeline.FormatTime(parsed, format)
		if err != nil {
			break
		}
		return formatted, ""
	}
	return nil, "must match format " + format
}

// ParseText parses one user-entered string the way Bind does for a single
// position. Prompt-driven frontends use it to validate as the user types.
func ParseText(descriptor timeline.Descriptor, text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("is required")
	}
	value, message := bindOne(descriptor, text)
	if message != "" {
		return nil, errors.New(message)
	}
	return value, nil
}
