package openapi_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/openapi"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

func TestBuild_Document(t *testing.T) {
	doc, err := openapi.Build(context.Background(), testsupport.SampleSet(),
		openapi.WithTitle("Sensors"),
		openapi.WithServers("http://train:8000", "http://predict:8001"),
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var parsed struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]struct {
			Post struct {
				OperationID string `json:"operationId"`
			} `json:"post"`
			Servers []struct {
				URL string `json:"url"`
			} `json:"servers"`
		} `json:"paths"`
	}
	if err := json.Unmarshal(doc.Raw(), &parsed); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}

	if parsed.OpenAPI != "3.0.3" || parsed.Info.Title != "Sensors" || parsed.Info.Version != openapi.DefaultVersion {
		t.Fatalf("unexpected header %+v", parsed)
	}

	got := map[string]string{}
	for path, item := range parsed.Paths {
		server := ""
		if len(item.Servers) > 0 {
			server = item.Servers[0].URL
		}
		got[path] = item.Post.OperationID + "@" + server
	}
	want := map[string]string{
		"/push_data": "pushData@http://train:8000",
		"/predict":   "predict@http://predict:8001",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(string(doc.Raw()), `"oneOf"`) {
		t.Fatalf("expected oneOf item schema in document")
	}
}

func TestValidator_AcceptsMatchingPayload(t *testing.T) {
	validator := openapi.NewValidator(testsupport.SampleSet())
	if err := validator.Validate(testsupport.SampleValues()); err != nil {
		t.Fatalf("validate: %v", err)
	}

	values, err := validator.ValidateJSON([]byte(`[{"Datetime":"2024-05-01 12:30:00"},{"Integer":42},{"Float":0.25},{"Enum":"mid"}]`))
	if err != nil {
		t.Fatalf("validate json: %v", err)
	}
	if diff := cmp.Diff(testsupport.SampleValues(), values); diff != "" {
		t.Fatalf("decoded values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_Rejects(t *testing.T) {
	validator := openapi.NewValidator(testsupport.SampleSet())

	cases := []struct {
		name   string
		values []timeline.Value
	}{
		{name: "short", values: testsupport.SampleValues()[:3]},
		{name: "swapped tags", values: []timeline.Value{
			timeline.DatetimeValue("2024-05-01 12:30:00"),
			timeline.FloatValue(1),
			timeline.IntegerValue(1),
			timeline.EnumValue("mid"),
		}},
		{name: "unknown option", values: []timeline.Value{
			timeline.DatetimeValue("2024-05-01 12:30:00"),
			timeline.IntegerValue(1),
			timeline.FloatValue(1),
			timeline.EnumValue("extreme"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.Validate(tc.values); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidator_IntegerMustBeIntegral(t *testing.T) {
	set := timeline.MustNewSet(timeline.Integer(0, 1, 1), timeline.Integer(0, 1, 1))
	validator := openapi.NewValidator(set)

	if err := validator.Validate([]timeline.Value{timeline.IntegerValue(1), timeline.IntegerValue(2)}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := validator.ValidateJSON([]byte(`[{"Integer":1.5},{"Integer":2}]`)); err == nil {
		t.Fatalf("expected fractional integer to be rejected")
	}
	if _, err := validator.ValidateJSON([]byte(`[{"Integer":1}]`)); err == nil {
		t.Fatalf("expected short payload to be rejected")
	}
}
