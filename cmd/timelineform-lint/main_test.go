package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLintFile_Clean(t *testing.T) {
	path := writeConfig(t, "clean.toml", `
[[timelines]]
type = "Integer"
min_value = 0.0
max_value = 10.0
capacity = 3

[form]
title = "Counts"

[form.help]
1 = "Readings per hour"
`)
	if got := lintFile(path); len(got) != 0 {
		t.Fatalf("expected no violations, got %+v", got)
	}
}

func TestLintFile_Violations(t *testing.T) {
	path := writeConfig(t, "broken.yaml", `
timelines:
  - type: Enum
    capacity: 2
  - type: Float
    min_value: 0
    max_value: 1
    capacity: 2
form:
  variant: dark
  help:
    "0": "zero is not a position"
    "x": "not a number"
    "2": "   "
`)
	got := lintFile(path)

	var locations []string
	for _, v := range got {
		locations = append(locations, v.location)
	}
	want := []string{
		"timelines > 1",
		"form > help > 0",
		"form > help > 2",
		"form > help > x",
		"form > variant",
	}
	if diff := cmp.Diff(want, locations); diff != "" {
		t.Fatalf("violation locations mismatch (-want +got):\n%s", diff)
	}
}

func TestLintFile_ParseFailure(t *testing.T) {
	path := writeConfig(t, "empty.json", "")
	got := lintFile(path)
	if len(got) != 1 || got[0].location != "file" {
		t.Fatalf("expected single file violation, got %+v", got)
	}
}

func TestReport_SortsViolations(t *testing.T) {
	var buf bytes.Buffer
	flagged := report(&buf, []violation{
		{file: "b.toml", location: "form", message: "x"},
		{file: "a.toml", location: "timelines > 2", message: "y"},
		{file: "a.toml", location: "timelines > 1", message: "z"},
	})
	if !flagged {
		t.Fatalf("expected report to flag violations")
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"a.toml: timelines > 1 -> z",
		"a.toml: timelines > 2 -> y",
		"b.toml: form -> x",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}
