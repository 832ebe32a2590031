package vanilla

import (
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/prediction"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

func sampleForm(t *testing.T) model.FormModel {
	t.Helper()
	form, err := model.Derive(testsupport.SampleDescriptors())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return form
}

func renderHTML(t *testing.T, renderer *Renderer, form model.FormModel, options render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_RendersEveryFieldInOrder(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html := renderHTML(t, renderer, sampleForm(t), render.RenderOptions{Action: "/submit"})

	labels := []string{"#1 datetime", "#2 integer", "#3 float", "#4 enum"}
	last := -1
	for _, label := range labels {
		idx := strings.Index(html, label)
		if idx < 0 {
			t.Fatalf("label %q missing from output", label)
		}
		if idx < last {
			t.Fatalf("label %q rendered out of order", label)
		}
		last = idx
	}

	for _, fragment := range []string{
		`<title>Timeline</title>`,
		`action="/submit"`,
		`type="datetime-local"`,
		`name="0"`,
		`type="number" id="tf-1" name="1"`,
		`step="1"`,
		`step="any"`,
		`<select id="tf-3" name="3"`,
		`<option value="mid">mid</option>`,
		`data-component="numeric-input"`,
		`name="intent" value="train"`,
		`name="intent" value="predict"`,
		`<style>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
	if got := strings.Count(html, `class="tf-required"`); got != 4 {
		t.Fatalf("expected every field required, got %d markers", got)
	}
	if strings.Contains(html, `data-version=`) {
		t.Fatalf("prediction panel should be hidden without a prediction")
	}
}

func TestRenderer_EchoesValuesErrorsAndHidden(t *testing.T) {
	renderer, err := New(WithStylesheetURL("/assets/timelineform.css"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html := renderHTML(t, renderer, sampleForm(t), render.RenderOptions{
		Title:       "Sensor <feed>",
		Description: "<p>Hourly <strong>readings</strong></p>",
		Intent:      submission.IntentPredict,
		Values:      map[string]string{"0": "2024-05-01 12:30:00", "1": "42", "3": "high"},
		Errors:      map[string][]string{"2": {"must be a number"}},
		FormErrors:  []string{"training service unavailable"},
		Hidden:      render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok-1")),
	})

	for _, fragment := range []string{
		`<title>Sensor &lt;feed&gt;</title>`,
		`<p>Hourly <strong>readings</strong></p>`,
		`value="2024-05-01T12:30:00"`,
		`name="1" value="42"`,
		`<option value="high" selected>high</option>`,
		`aria-invalid="true"`,
		`<li>must be a number</li>`,
		`<li>training service unavailable</li>`,
		`<input type="hidden" name="_csrf" value="tok-1">`,
		`value="predict" class="tf-button tf-button--default"`,
		`<link rel="stylesheet" href="/assets/timelineform.css">`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
	if strings.Contains(html, "<style>") {
		t.Fatalf("stylesheet should be linked, not inlined")
	}
}

func TestRenderer_PredictionPanel(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	snapshot := &prediction.Snapshot{
		Values:    testsupport.SampleValues(),
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Version:   3,
	}
	html := renderHTML(t, renderer, sampleForm(t), render.RenderOptions{
		Prediction: snapshot,
		LiveURL:    "/ws/prediction",
	})

	for _, fragment := range []string{
		`data-version="3"`,
		`data-live-url="/ws/prediction"`,
		`<span class="tf-prediction-kind">Integer</span> <span class="tf-prediction-value">42</span>`,
		`<span class="tf-prediction-value">mid</span>`,
		`Updated 2024-05-01T12:00:00Z`,
		`&quot;Float&quot;: 0.25`,
		`new WebSocket(`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
}

func TestRenderer_ThemeTokensAndPartials(t *testing.T) {
	files := fstest.MapFS{
		"themes/acme/select.tmpl": &fstest.MapFile{Data: []byte(`<div class="acme-select">{{ control.name }}</div>`)},
	}
	err := fs.WalkDir(TemplatesFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := fs.ReadFile(TemplatesFS(), path)
		files[path] = &fstest.MapFile{Data: data}
		return readErr
	})
	if err != nil {
		t.Fatalf("copy templates: %v", err)
	}

	renderer, err := New(WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cfg := render.ThemeConfig(&theme.Manifest{
		Name:      "acme",
		Tokens:    map[string]string{"brand": "#123456"},
		Templates: map[string]string{"forms.select": "themes/acme/select.tmpl"},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
	}, "")

	html := renderHTML(t, renderer, sampleForm(t), render.RenderOptions{Theme: cfg})
	for _, fragment := range []string{
		`style="--brand: #123456;"`,
		`data-theme="acme"`,
		`<div class="acme-select">3</div>`,
		`<link rel="stylesheet" href="/assets/acme/theme.css">`,
	} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
	if strings.Contains(html, `<select id="tf-3"`) {
		t.Fatalf("theme partial did not replace the built-in select")
	}
}

func TestRenderer_CustomDatetimeFormatUsesTextInput(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	form, err := model.Derive([]timeline.Descriptor{timeline.Datetime("%d/%m/%Y")})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	html := renderHTML(t, renderer, form, render.RenderOptions{Values: map[string]string{"0": "01/05/2024"}})

	if !strings.Contains(html, `type="text" id="tf-0" name="0" value="01/05/2024" placeholder="%d/%m/%Y"`) {
		t.Fatalf("expected text datetime input, got:\n%s", html)
	}
}

func TestComponentRendererUnknownComponent(t *testing.T) {
	renderer := newComponentRenderer(nil, components.New(), nil)

	_, err := renderer.render(model.Field{Name: "0", Widget: model.WidgetSelect}, "", nil)
	if err == nil {
		t.Fatalf("expected error when component is missing")
	}
	if got := err.Error(); got != `component "select" not registered for field "0"` {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestComponentRendererUsesThemePartial(t *testing.T) {
	template := &recordingTemplateRenderer{}
	renderer := newComponentRenderer(template, components.NewDefaultRegistry(), map[string]string{
		components.PartialNumeric: "themes/custom/numeric.tmpl",
	})

	if _, err := renderer.render(model.Field{Name: "1", Widget: model.WidgetNumericInput}, "", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(template.calls) == 0 || template.calls[0] != "themes/custom/numeric.tmpl" {
		t.Fatalf("theme partial not applied, got %v", template.calls)
	}
}

func TestAssetsFSServesStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".tf-form") {
		t.Fatalf("unexpected stylesheet contents")
	}
}

type recordingTemplateRenderer struct {
	calls []string
}

func (r *recordingTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return "", nil
}

func (r *recordingTemplateRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplateRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	return nil
}

func (r *recordingTemplateRenderer) GlobalContext(data any) error {
	return nil
}
