package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ramadan-taqwim/internal/timings"
)

func sampleMonth(key string, fetchedAt time.Time) *timings.MonthTimings {
	return &timings.MonthTimings{
		CacheKey:  key,
		FetchedAt: fetchedAt,
		Days: []timings.DayTiming{
			{
				DateGregorian: "19-02-2026",
				HijriDisplay:  "1 Ramaḍān 1447",
				IsRamadan:     true,
				RamadanDay:    1,
				Prayers: timings.NormalizedPrayers{
					Fajr:      "05:05",
					Maghrib:   "18:01",
					SehriEnds: "05:05",
					Iftar:     "18:01",
				},
			},
		},
	}
}

func TestKey(t *testing.T) {
	got := Key("dhaka", 1, 1, 2026, 2)
	want := "aladhan:dhaka:1:1:2026:2"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()

	key := Key("dhaka", 1, 1, 2026, 2)
	in := sampleMonth(key, time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC))

	if err := store.SaveMonth(ctx, in); err != nil {
		t.Fatalf("SaveMonth() error: %v", err)
	}

	got := store.LoadMonth(ctx, key)
	if got == nil {
		t.Fatal("LoadMonth() = nil after save")
	}
	if got.CacheKey != key {
		t.Errorf("CacheKey = %q, want %q", got.CacheKey, key)
	}
	if len(got.Days) != 1 {
		t.Fatalf("len(Days) = %d, want 1", len(got.Days))
	}
	if got.Days[0].Prayers.Fajr != "05:05" || got.Days[0].RamadanDay != 1 {
		t.Errorf("day round-trip mismatch: %+v", got.Days[0])
	}
	if !got.FetchedAt.Equal(in.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, in.FetchedAt)
	}
}

func TestFileStore_Miss(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	if got := store.LoadMonth(context.Background(), Key("dhaka", 1, 1, 2026, 2)); got != nil {
		t.Errorf("LoadMonth() = %+v, want nil on miss", got)
	}
}

func TestFileStore_KeyMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()

	// Write an entry, then corrupt its stored key on disk. The load path
	// must treat the mismatch as a miss, not serve foreign data.
	key := Key("dhaka", 1, 1, 2026, 2)
	if err := store.SaveMonth(ctx, sampleMonth(key, time.Now())); err != nil {
		t.Fatalf("SaveMonth() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache dir listing: %v (%d entries)", err, len(entries))
	}
	path := filepath.Join(dir, entries[0].Name())
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	tampered := strings.Replace(string(data), "aladhan:dhaka", "aladhan:bogra", 1)
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("rewrite cache file: %v", err)
	}

	if got := store.LoadMonth(ctx, key); got != nil {
		t.Errorf("LoadMonth() = %+v, want nil on key mismatch", got)
	}
}

func TestFileStore_CorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()

	key := Key("dhaka", 1, 1, 2026, 2)
	if err := store.SaveMonth(ctx, sampleMonth(key, time.Now())); err != nil {
		t.Fatalf("SaveMonth() error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("cache dir has %d entries, want 1", len(entries))
	}
	path := filepath.Join(dir, entries[0].Name())
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt cache file: %v", err)
	}

	if got := store.LoadMonth(ctx, key); got != nil {
		t.Errorf("LoadMonth() = %+v, want nil on corrupt entry", got)
	}
}

func TestFileStore_DistinctKeysDistinctFiles(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()

	k1 := Key("dhaka", 1, 1, 2026, 2)
	k2 := Key("dhaka", 2, 1, 2026, 2) // different method
	if err := store.SaveMonth(ctx, sampleMonth(k1, time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMonth(ctx, sampleMonth(k2, time.Now())); err != nil {
		t.Fatal(err)
	}

	if got := store.LoadMonth(ctx, k1); got == nil || got.CacheKey != k1 {
		t.Errorf("k1 load = %+v", got)
	}
	if got := store.LoadMonth(ctx, k2); got == nil || got.CacheKey != k2 {
		t.Errorf("k2 load = %+v", got)
	}
}

func TestFresh(t *testing.T) {
	now := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		mt   *timings.MonthTimings
		want bool
	}{
		{"nil", nil, false},
		{"just fetched", &timings.MonthTimings{FetchedAt: now}, true},
		{"within TTL", &timings.MonthTimings{FetchedAt: now.Add(-23 * time.Hour)}, true},
		{"exactly TTL old", &timings.MonthTimings{FetchedAt: now.Add(-TTL)}, false},
		{"stale", &timings.MonthTimings{FetchedAt: now.Add(-48 * time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fresh(tt.mt, now); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
