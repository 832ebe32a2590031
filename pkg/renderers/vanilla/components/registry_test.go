package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/model"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor(" TEST ")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := New()
	if err := reg.Register("  ", Descriptor{Renderer: func(*bytes.Buffer, model.Field, ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("x", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	reg.MustRegister("a", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/a.css"}})
	reg.MustRegister("b", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/b.css"}})

	got := reg.Stylesheets([]string{"a", "b", "missing"})
	want := []string{"/shared.css", "/a.css", "/b.css"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistryCoversEveryWidget(t *testing.T) {
	reg := NewDefaultRegistry()
	want := []string{NameDatetimePicker, NameNumericInput, NameSelect}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	clone := reg.Clone()
	clone.MustRegister("extra", Descriptor{Renderer: func(*bytes.Buffer, model.Field, ComponentData) error { return nil }})
	if _, ok := reg.Descriptor("extra"); ok {
		t.Fatalf("clone registration leaked into original")
	}
}

func TestDatetimeConfig(t *testing.T) {
	field := model.Field{Format: "%Y-%m-%d %H:%M:%S"}
	cfg := datetimeConfig(field, ComponentData{Value: "2024-05-01 12:30:00"})
	if cfg["native"] != true || cfg["value"] != "2024-05-01T12:30:00" {
		t.Fatalf("unexpected native config: %#v", cfg)
	}

	custom := datetimeConfig(model.Field{Format: "%d/%m/%Y"}, ComponentData{Value: "01/05/2024"})
	if custom["native"] != false || custom["value"] != "01/05/2024" {
		t.Fatalf("unexpected custom config: %#v", custom)
	}
}

func TestSelectConfigMarksSelected(t *testing.T) {
	field := model.Field{Options: []model.Option{{Label: "low", Value: "low"}, {Label: "mid", Value: "mid"}}}
	cfg := selectConfig(field, ComponentData{Value: "mid"})

	options := cfg["options"].([]map[string]any)
	if options[0]["selected"] != false || options[1]["selected"] != true {
		t.Fatalf("unexpected selection: %#v", options)
	}
	if cfg["hasSelected"] != true {
		t.Fatalf("expected hasSelected")
	}
}
