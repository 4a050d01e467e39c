package records_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/granite-reporting/granite/internal/records"
	"github.com/granite-reporting/granite/internal/rules"
)

func sampleRecords(id uuid.UUID) []records.Record {
	return []records.Record{
		{
			Type:     "ec1",
			UploadID: id,
			Row:      13,
			Content: rules.Content{
				"Name":             rules.String("Project A"),
				"Adopted_Budget__c": rules.Number(1000),
			},
		},
	}
}

func TestCacheLoadsAtMostOnce(t *testing.T) {
	cache := records.NewCache(t.TempDir())
	id := uuid.New()

	var loads atomic.Int32
	load := func() ([]records.Record, error) {
		loads.Add(1)
		return sampleRecords(id), nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Records(id, load)
			if err != nil {
				t.Errorf("records: %v", err)
				return
			}
			if len(got) != 1 {
				t.Errorf("got %d records", len(got))
			}
		}()
	}
	wg.Wait()

	if n := loads.Load(); n != 1 {
		t.Errorf("load ran %d times, want 1", n)
	}

	// warm memory path does not reload either
	if _, err := cache.Records(id, load); err != nil {
		t.Fatalf("records: %v", err)
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("load ran %d times after warm read, want 1", n)
	}
}

func TestCacheSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	id := uuid.New()

	first := records.NewCache(dir)
	if _, err := first.Records(id, func() ([]records.Record, error) {
		return sampleRecords(id), nil
	}); err != nil {
		t.Fatalf("records: %v", err)
	}

	// a fresh cache over the same directory reads from disk, not load
	second := records.NewCache(dir)
	got, err := second.Records(id, func() ([]records.Record, error) {
		t.Fatal("load should not run for a disk-cached upload")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("records: %v", err)
	}

	if len(got) != 1 || got[0].Type != "ec1" || got[0].Row != 13 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if v := got[0].Content.Get("Adopted_Budget__c"); v.Kind != rules.KindNumber || v.Num != 1000 {
		t.Errorf("value round-trip mismatch: %+v", v)
	}
}

func TestCacheShardsByFirstCharacter(t *testing.T) {
	dir := t.TempDir()
	cache := records.NewCache(dir)
	id := uuid.New()

	if _, err := cache.Records(id, func() ([]records.Record, error) {
		return sampleRecords(id), nil
	}); err != nil {
		t.Fatalf("records: %v", err)
	}

	shard := id.String()[:1]
	path := filepath.Join(dir, shard, id.String()+".json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected cache file at %s: %v", path, err)
	}
}

func TestCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	cache := records.NewCache(dir)
	id := uuid.New()

	if _, err := cache.Records(id, func() ([]records.Record, error) {
		return sampleRecords(id), nil
	}); err != nil {
		t.Fatalf("records: %v", err)
	}

	if err := cache.Invalidate(id); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	reloaded := false
	if _, err := cache.Records(id, func() ([]records.Record, error) {
		reloaded = true
		return sampleRecords(id), nil
	}); err != nil {
		t.Fatalf("records: %v", err)
	}
	if !reloaded {
		t.Error("invalidated upload should be re-extracted")
	}

	// invalidating an upload that was never cached is not an error
	if err := cache.Invalidate(uuid.New()); err != nil {
		t.Errorf("invalidate on cold id: %v", err)
	}
}

func TestCacheLoadErrorsAreNotCached(t *testing.T) {
	cache := records.NewCache(t.TempDir())
	id := uuid.New()

	boom := errors.New("corrupt workbook")
	if _, err := cache.Records(id, func() ([]records.Record, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want load error", err)
	}

	got, err := cache.Records(id, func() ([]records.Record, error) {
		return sampleRecords(id), nil
	})
	if err != nil {
		t.Fatalf("records after failed load: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records", len(got))
	}
}
