package journal

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

func openStore(t *testing.T, options ...StoreOption) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"), options...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := openStore(t, WithStoreClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := store.Record(ctx, Entry{
		Session:  "s1",
		Intent:   submission.IntentTrain,
		Request:  testsupport.SampleValues(),
		Duration: 15 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("record train: %v", err)
	}
	if first.ID == "" || !first.CreatedAt.Equal(now) {
		t.Fatalf("expected id and timestamp, got %+v", first)
	}

	prediction := []timeline.Value{
		timeline.DatetimeValue("2024-05-01 13:30:00"),
		timeline.IntegerValue(40),
		timeline.FloatValue(0.5),
		timeline.EnumValue("high"),
	}
	if _, err := store.Record(ctx, Entry{Session: "s1", Intent: submission.IntentPredict, Request: testsupport.SampleValues(), Response: prediction}); err != nil {
		t.Fatalf("record predict: %v", err)
	}
	if _, err := store.Record(ctx, Entry{Session: "s2", Intent: submission.IntentPredict, Request: testsupport.SampleValues(), Error: "boom"}); err != nil {
		t.Fatalf("record other session: %v", err)
	}

	entries, err := store.List(ctx, Filter{Session: "s1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for s1, got %d", len(entries))
	}
	if entries[0].Intent != submission.IntentPredict || entries[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if !timeline.EqualValues(prediction, entries[0].Response) {
		t.Fatalf("response round trip mismatch: %v", entries[0].Response)
	}
	if !timeline.EqualValues(testsupport.SampleValues(), entries[1].Request) {
		t.Fatalf("request round trip mismatch: %v", entries[1].Request)
	}
	if entries[1].Response != nil || entries[1].Duration != 15*time.Millisecond {
		t.Fatalf("unexpected train entry %+v", entries[1])
	}

	all, err := store.List(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Session != "s2" || all[0].Error != "boom" {
		t.Fatalf("unexpected limited list %+v", all)
	}
}

func TestStore_RejectsUnknownIntent(t *testing.T) {
	store := openStore(t)
	_, err := store.Record(context.Background(), Entry{Intent: "guess"})
	if !errors.Is(err, submission.ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Record(ctx, Entry{Session: "s", Intent: submission.IntentTrain, Request: testsupport.SampleValues()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.List(ctx, Filter{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close() //nolint:errcheck
	entries, err := reopened.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close() //nolint:errcheck
	entries, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty journal")
	}
}

func TestDecorators_RecordEveryCall(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(10 * time.Millisecond)
		return tick
	}

	trainer := Trainer(&testsupport.RecordingTrainer{Err: errors.New("503")}, store, "s1", WithClock(clock))
	predictor := Predictor(&testsupport.ScriptedPredictor{Responses: [][]timeline.Value{testsupport.SampleValues()}}, store, "s1", WithClock(clock))

	if err := trainer.Train(ctx, testsupport.SampleValues()); err == nil || err.Error() != "503" {
		t.Fatalf("decorator must return the inner error unchanged, got %v", err)
	}
	got, err := predictor.Predict(ctx, testsupport.SampleValues())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !timeline.EqualValues(testsupport.SampleValues(), got) {
		t.Fatalf("decorator altered prediction: %v", got)
	}

	entries, err := store.List(ctx, Filter{Session: "s1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	intents := []submission.Intent{entries[0].Intent, entries[1].Intent}
	if diff := cmp.Diff([]submission.Intent{submission.IntentPredict, submission.IntentTrain}, intents); diff != "" {
		t.Fatalf("intents mismatch (-want +got):\n%s", diff)
	}
	if entries[1].Error != "503" || entries[1].Duration != 10*time.Millisecond {
		t.Fatalf("unexpected train entry %+v", entries[1])
	}
	if len(entries[0].Response) != 4 {
		t.Fatalf("expected recorded prediction, got %+v", entries[0])
	}
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) Record(context.Context, Entry) (Entry, error) {
	f.calls++
	return Entry{}, errors.New("disk full")
}

func TestDecorators_JournalFailureDoesNotFailCall(t *testing.T) {
	recorder := &failingRecorder{}
	trainer := Trainer(&testsupport.RecordingTrainer{}, recorder, "s1")
	if err := trainer.Train(context.Background(), testsupport.SampleValues()); err != nil {
		t.Fatalf("train should succeed despite journal failure: %v", err)
	}
	if recorder.calls != 1 {
		t.Fatalf("expected one record attempt, got %d", recorder.calls)
	}

	inner := &testsupport.RecordingTrainer{}
	if Trainer(inner, nil, "s1") != submission.Trainer(inner) {
		t.Fatalf("nil recorder should return inner unchanged")
	}
}

func TestStore_CloseDuringUse(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = store.Record(ctx, Entry{Session: "s", Intent: submission.IntentTrain, Request: testsupport.SampleValues()})
				_, _ = store.List(ctx, Filter{Session: "s"})
			}
		}()
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()

	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := store.Record(ctx, Entry{Session: "s", Intent: submission.IntentTrain}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
