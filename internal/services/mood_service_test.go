package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMoodService_List_EmptyIsNonNil(t *testing.T) {
	svc := &MoodService{Store: newMemStore()}
	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestMoodService_List_Error(t *testing.T) {
	st := newMemStore()
	st.listErr = errors.New("boom")
	svc := &MoodService{Store: st}
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMoodService_Append_EmptyRejected(t *testing.T) {
	st := newMemStore()
	svc := &MoodService{Store: st}
	if _, err := svc.Append(context.Background(), ""); !errors.Is(err, ErrEmptyMood) {
		t.Fatalf("Append(\"\") err = %v; want ErrEmptyMood", err)
	}
	if st.moodInserts != 0 {
		t.Fatalf("no write expected for empty mood")
	}
}

func TestMoodService_Append_KeepsLabelVerbatim(t *testing.T) {
	st := newMemStore()
	svc := &MoodService{Store: st, Now: func() time.Time { return fixedNow }}
	for _, in := range []string{"  calm ", "   "} {
		items, err := svc.Append(context.Background(), in)
		if err != nil {
			t.Fatalf("Append(%q): %v", in, err)
		}
		if items[0].Mood != in {
			t.Fatalf("stored %q; want %q", items[0].Mood, in)
		}
	}
}

func TestMoodService_Append_ReturnsFullListNewestFirst(t *testing.T) {
	st := newMemStore()
	clock := fixedNow
	svc := &MoodService{Store: st, Now: func() time.Time { clock = clock.Add(time.Second); return clock }}

	if _, err := svc.Append(context.Background(), "calm"); err != nil {
		t.Fatalf("Append calm: %v", err)
	}
	items, err := svc.Append(context.Background(), "anxious")
	if err != nil {
		t.Fatalf("Append anxious: %v", err)
	}
	if len(items) != 2 || items[0].Mood != "anxious" || items[1].Mood != "calm" {
		t.Fatalf("unexpected list: %+v", items)
	}
	if items[0].ID == "" || !items[0].Timestamp.After(items[1].Timestamp) {
		t.Fatalf("expected ids and descending timestamps: %+v", items)
	}
}

func TestMoodService_Append_InsertError(t *testing.T) {
	st := newMemStore()
	st.moodErr = errors.New("boom")
	svc := &MoodService{Store: st}
	if _, err := svc.Append(context.Background(), "calm"); err == nil || errors.Is(err, ErrEmptyMood) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestMoodService_Stats(t *testing.T) {
	st := newMemStore()
	svc := &MoodService{Store: st, Now: func() time.Time { return fixedNow }}
	n, latest, err := svc.Stats(context.Background())
	if err != nil || n != 0 || latest != nil {
		t.Fatalf("empty stats = (%d, %v, %v)", n, latest, err)
	}
	if _, err := svc.Append(context.Background(), "calm"); err != nil {
		t.Fatal(err)
	}
	n, latest, err = svc.Stats(context.Background())
	if err != nil || n != 1 || latest == nil || !latest.Equal(fixedNow) {
		t.Fatalf("stats = (%d, %v, %v)", n, latest, err)
	}
}
