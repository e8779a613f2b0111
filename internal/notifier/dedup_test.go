package notifier

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestMemoryDedupStore(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryDedupStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if isNew, _ := s.MarkIfNew(ctx, "a", 30*time.Minute); !isNew {
		t.Error("first mark should be new")
	}
	if isNew, _ := s.MarkIfNew(ctx, "a", 30*time.Minute); isNew {
		t.Error("second mark within ttl should not be new")
	}

	now = now.Add(30 * time.Minute)
	if isNew, _ := s.MarkIfNew(ctx, "a", 30*time.Minute); !isNew {
		t.Error("mark after ttl should be new")
	}

	s.MarkIfNew(ctx, "b", time.Minute) // nolint:errcheck
	now = now.Add(time.Minute)
	if removed := s.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if s.Size() != 1 {
		t.Errorf("Size() = %d, want 1", s.Size())
	}
}

type failingStore struct{}

func (failingStore) MarkIfNew(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingStore) Unmark(context.Context, string) error {
	return errors.New("connection refused")
}

// flakyNotifier fails its first failures calls, then records batches
type flakyNotifier struct {
	failures int
	calls    int
	batches  [][]Notice
}

func (f *flakyNotifier) Notify(_ context.Context, notices []Notice) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("channel down")
	}
	f.batches = append(f.batches, notices)
	return nil
}

func TestDeduper(t *testing.T) {
	next := &recordingNotifier{}
	d := NewDeduper(next, NewMemoryDedupStore(), time.Hour)
	ctx := context.Background()

	other := testNotice()
	other.Race = 8

	if err := d.Notify(ctx, []Notice{testNotice()}); err != nil {
		t.Fatal(err)
	}
	if err := d.Notify(ctx, []Notice{testNotice(), other}); err != nil {
		t.Fatal(err)
	}
	if err := d.Notify(ctx, []Notice{testNotice(), other}); !errors.Is(err, ErrAlreadyNotified) {
		t.Fatalf("repeat batch error = %v, want ErrAlreadyNotified", err)
	}

	if len(next.batches) != 2 {
		t.Fatalf("forwarded %d batches, want 2", len(next.batches))
	}
	if len(next.batches[1]) != 1 || next.batches[1][0].Race != 8 {
		t.Errorf("second batch = %+v, want only race 8", next.batches[1])
	}
}

func TestDeduper_StoreFailureSendsAnyway(t *testing.T) {
	next := &recordingNotifier{}
	d := NewDeduper(next, failingStore{}, time.Hour)

	if err := d.Notify(context.Background(), []Notice{testNotice()}); err != nil {
		t.Fatal(err)
	}
	if len(next.batches) != 1 {
		t.Errorf("forwarded %d batches, want 1", len(next.batches))
	}
}

func TestDeduper_FailedDeliveryIsRetried(t *testing.T) {
	next := &flakyNotifier{failures: 1}
	d := NewDeduper(next, NewMemoryDedupStore(), 30*time.Minute)
	ctx := context.Background()

	if err := d.Notify(ctx, []Notice{testNotice()}); err == nil {
		t.Fatal("first Notify() should report the channel error")
	}
	if err := d.Notify(ctx, []Notice{testNotice()}); err != nil {
		t.Fatalf("retry Notify() error = %v", err)
	}
	if next.calls != 2 {
		t.Errorf("channel calls = %d, want 2", next.calls)
	}
	if len(next.batches) != 1 || len(next.batches[0]) != 1 {
		t.Errorf("delivered batches = %+v, want the retried notice", next.batches)
	}

	if err := d.Notify(ctx, []Notice{testNotice()}); !errors.Is(err, ErrAlreadyNotified) {
		t.Errorf("Notify() after delivery error = %v, want ErrAlreadyNotified", err)
	}
}

func TestDeduper_FailedDeliveryKeepsOtherMarks(t *testing.T) {
	store := NewMemoryDedupStore()
	ctx := context.Background()
	sent := testNotice()
	sent.Race = 2

	if ok, _ := store.MarkIfNew(ctx, sent.Key(), time.Hour); !ok {
		t.Fatal("seed mark should be new")
	}

	d := NewDeduper(&flakyNotifier{failures: 1}, store, time.Hour)
	if err := d.Notify(ctx, []Notice{sent, testNotice()}); err == nil {
		t.Fatal("expected channel error")
	}

	if ok, _ := store.MarkIfNew(ctx, sent.Key(), time.Hour); ok {
		t.Error("mark of an earlier delivery was released")
	}
	if ok, _ := store.MarkIfNew(ctx, testNotice().Key(), time.Hour); !ok {
		t.Error("mark of the failed notice was kept")
	}
}

func TestRedisDedupStore(t *testing.T) {
	url := os.Getenv("BOATODDS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BOATODDS_TEST_REDIS_URL not set")
	}

	s, err := NewRedisDedupStore(url)
	if err != nil {
		t.Fatalf("NewRedisDedupStore() error = %v", err)
	}
	defer s.Close() // nolint:errcheck

	ctx := context.Background()
	key := "alert:dedup:test:" + time.Now().Format(time.RFC3339Nano)
	if isNew, err := s.MarkIfNew(ctx, key, time.Minute); err != nil || !isNew {
		t.Fatalf("first MarkIfNew() = %v, %v", isNew, err)
	}
	if isNew, err := s.MarkIfNew(ctx, key, time.Minute); err != nil || isNew {
		t.Errorf("second MarkIfNew() = %v, %v", isNew, err)
	}
	if err := s.Unmark(ctx, key); err != nil {
		t.Fatalf("Unmark() error = %v", err)
	}
	if isNew, err := s.MarkIfNew(ctx, key, time.Minute); err != nil || !isNew {
		t.Errorf("MarkIfNew() after Unmark = %v, %v", isNew, err)
	}
}

func TestNewRedisDedupStore_BadURL(t *testing.T) {
	if _, err := NewRedisDedupStore("http://not-redis"); err == nil {
		t.Error("expected error for non-redis URL")
	}
}
