package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

type snapshotRenderer struct {
	options render.RenderOptions
}

func (r *snapshotRenderer) Name() string        { return "snapshot" }
func (r *snapshotRenderer) ContentType() string { return "application/json" }

func (r *snapshotRenderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	r.options = options
	return json.Marshal(form)
}

func TestGenerate_VanillaFromConfigFS(t *testing.T) {
	out, err := New().Generate(context.Background(), Request{
		FS:   os.DirFS("../config/testdata"),
		Path: "sensors.toml",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"<title>Sensor feed</title>",
		"<strong>readings</strong>",
		"Observation time",
		"#654321",
		"/assets/acme/theme.css",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(html, "alert(1)") {
		t.Errorf("expected description script to be sanitised")
	}
}

func TestGenerate_CustomRendererAndDecorators(t *testing.T) {
	snapshot := &snapshotRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(snapshot)

	file := config.File{Timelines: testsupport.SampleDescriptors(), Form: config.Form{Title: "Inline"}}
	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer("snapshot"),
		WithLabeler(func(position int, kind timeline.Kind) string {
			return kind.String() + " item"
		}),
		WithDecorators(model.DecoratorFunc(func(form *model.FormModel) error {
			form.Metadata = map[string]string{"source": "inline"}
			return nil
		})),
	)

	out, err := orch.Generate(context.Background(), Request{
		Config:        &file,
		RenderOptions: render.RenderOptions{Title: "Override"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var form model.FormModel
	if err := json.Unmarshal(out, &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	var labels []string
	for _, field := range form.Fields {
		labels = append(labels, field.Label)
	}
	want := []string{"Datetime item", "Integer item", "Float item", "Enum item"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if form.Metadata["source"] != "inline" {
		t.Fatalf("expected decorator metadata, got %v", form.Metadata)
	}
	if snapshot.options.Title != "Override" {
		t.Fatalf("expected explicit title to win, got %q", snapshot.options.Title)
	}
}

func TestGenerate_Errors(t *testing.T) {
	file := config.File{Timelines: []timeline.Descriptor{{Type: "Text"}}}
	cases := []struct {
		name string
		req  Request
	}{
		{name: "no source", req: Request{}},
		{name: "missing file", req: Request{Path: "does-not-exist.toml"}},
		{name: "unknown kind", req: Request{Config: &file}},
		{name: "unknown renderer", req: Request{Config: &config.File{Timelines: testsupport.SampleDescriptors()}, Renderer: "preact"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New().Generate(context.Background(), tc.req); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := New().Build(ctx, Request{Path: "unused.toml"}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
