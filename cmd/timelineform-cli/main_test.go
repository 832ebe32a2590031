package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
)

func TestPrintOutcome(t *testing.T) {
	form, err := model.Derive(testsupport.SampleDescriptors())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	var buf bytes.Buffer
	printOutcome(&buf, form, submission.Outcome{
		Intent:   submission.IntentTrain,
		Values:   testsupport.SampleValues(),
		Duration: 12 * time.Millisecond,
	})
	if got, want := buf.String(), "Sent 4 values for training (12ms).\n"; got != want {
		t.Fatalf("train output = %q, want %q", got, want)
	}

	buf.Reset()
	printOutcome(&buf, form, submission.Outcome{
		Intent:     submission.IntentPredict,
		Prediction: testsupport.SampleValues(),
	})
	want := "Prediction (0s):\n" +
		"  " + form.Fields[0].Label + ": 2024-05-01 12:30:00\n" +
		"  " + form.Fields[1].Label + ": 42\n"
	if got := buf.String(); len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("predict output = %q, want prefix %q", got, want)
	}
}
