package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/timeline"
	"github.com/goliatone/go-timelineform/pkg/values"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Collected is the outcome of one prompt session: the chosen intent and one
// raw value per position, ready for the tagger.
type Collected struct {
	Intent submission.Intent
	Raw    map[int]any
	// Text keeps the strings the user entered, keyed by field name.
	Text map[string]string
}

// Renderer implements render.Renderer for terminal sessions. Render prompts
// for every field and the intent, then serializes the answers.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	fixedIntent  submission.Intent
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for the form and serializes the answers.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	collected, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, collected)
}

// Collect prompts for every field in order and then for the intent.
// opts.Values pre-fills answers and opts.Errors are shown before the field
// they belong to.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (Collected, error) {
	if ctx == nil {
		return Collected{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Collected{}, err
	}
	if r.driver == nil {
		return Collected{}, errors.New("tui: prompt driver is nil")
	}

	if title := strings.TrimSpace(opts.Title); title != "" {
		if err := r.info(ctx, title); err != nil {
			return Collected{}, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.errorf(ctx, "%s", message); err != nil {
			return Collected{}, err
		}
	}

	collected := Collected{
		Raw:  make(map[int]any, len(form.Fields)),
		Text: make(map[string]string, len(form.Fields)),
	}
	for _, field := range form.Fields {
		for _, message := range opts.Errors[field.Name] {
			if err := r.errorf(ctx, "%s %s", field.Label, message); err != nil {
				return Collected{}, err
			}
		}

		var (
			text  string
			value any
			err   error
		)
		if field.Widget == model.WidgetSelect {
			text, value, err = r.promptSelect(ctx, field, opts.Values[field.Name])
		} else {
			text, value, err = r.promptText(ctx, field, opts.Values[field.Name])
		}
		if err != nil {
			return Collected{}, err
		}
		collected.Raw[field.Position] = value
		collected.Text[field.Name] = text
	}

	intent, err := r.promptIntent(ctx, opts.Intent)
	if err != nil {
		return Collected{}, err
	}
	collected.Intent = intent
	return collected, nil
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, prefill string) (string, any, error) {
	descriptor := descriptorFor(field)
	help := field.Metadata[model.MetadataHelpText]
	if field.Type == timeline.KindDatetime && help == "" {
		help = "format " + descriptor.DatetimeFormat()
	}
	validate := func(text string) error {
		_, err := values.ParseText(descriptor, text)
		return err
	}

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message:   field.Label,
			Default:   prefill,
			Help:      help,
			Validator: validate,
		})
		if err != nil {
			return "", nil, err
		}
		value, err := values.ParseText(descriptor, response)
		if err != nil {
			if infoErr := r.errorf(ctx, "Invalid %s: %v", field.Label, err); infoErr != nil {
				return "", nil, infoErr
			}
			continue
		}
		return strings.TrimSpace(response), value, nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, prefill string) (string, any, error) {
	options := make([]string, len(field.Options))
	defaultIndex := -1
	for idx, option := range field.Options {
		options[idx] = option.Label
		if option.Value == prefill {
			defaultIndex = idx
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Metadata[model.MetadataHelpText],
	})
	if err != nil {
		return "", nil, err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil, fmt.Errorf("%w: %s index %d", ErrInvalidSelection, field.Label, idx)
	}
	value := field.Options[idx].Value
	return value, value, nil
}

func (r *Renderer) promptIntent(ctx context.Context, current submission.Intent) (submission.Intent, error) {
	if r.fixedIntent.Valid() {
		return r.fixedIntent, nil
	}
	choices := []submission.Intent{submission.IntentTrain, submission.IntentPredict}
	defaultIndex := 0
	if current == submission.IntentPredict {
		defaultIndex = 1
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Submit as",
		Options:      []string{choices[0].String(), choices[1].String()},
		DefaultIndex: defaultIndex,
		Help:         "train pushes the values as training data; predict asks for a forecast",
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", fmt.Errorf("%w: intent index %d", ErrInvalidSelection, idx)
	}
	return choices[idx], nil
}

func (r *Renderer) serialize(form model.FormModel, collected Collected) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		data := url.Values{}
		for name, text := range collected.Text {
			data.Set(name, text)
		}
		data.Set("intent", collected.Intent.String())
		return []byte(data.Encode()), nil
	case OutputFormatPrettyText:
		var builder strings.Builder
		for _, field := range form.Fields {
			fmt.Fprintf(&builder, "%s: %s\n", field.Label, collected.Text[field.Name])
		}
		fmt.Fprintf(&builder, "intent: %s\n", collected.Intent)
		return []byte(builder.String()), nil
	default:
		positions := make([]int, 0, len(collected.Raw))
		for position := range collected.Raw {
			positions = append(positions, position)
		}
		sort.Ints(positions)
		payload := struct {
			Intent submission.Intent `json:"intent"`
			Values map[string]any    `json:"values"`
		}{
			Intent: collected.Intent,
			Values: make(map[string]any, len(positions)),
		}
		for _, position := range positions {
			payload.Values[strconv.Itoa(position)] = collected.Raw[position]
		}
		return json.Marshal(payload)
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

// descriptorFor rebuilds the parsing-relevant part of a descriptor from its
// derived field.
func descriptorFor(field model.Field) timeline.Descriptor {
	descriptor := timeline.Descriptor{Type: field.Type, Format: field.Format}
	for _, option := range field.Options {
		descriptor.Options = append(descriptor.Options, option.Value)
	}
	return descriptor
}
