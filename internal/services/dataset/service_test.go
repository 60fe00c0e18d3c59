package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `{
	"sql": "SELECT bucket, count(*) FROM events GROUP BY 1",
	"rows": [["2024-01-01 00:00:00", 3], ["2024-01-01 01:00:00", 5]],
	"bucket_size": 3600
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "result.json")
	writeFile(t, path, sample)

	svc, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc, path
}

func waitFor(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	writeFile(t, path, sample)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if res.RowCount() != 2 || res.BucketSize != 3600 {
		t.Errorf("RowCount = %d, BucketSize = %v", res.RowCount(), res.BucketSize)
	}
	if res.Origin != path || res.LoadedAt.IsZero() {
		t.Errorf("Origin = %q, LoadedAt = %v", res.Origin, res.LoadedAt)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, "{not json")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}

	empty := filepath.Join(dir, "empty.json")
	writeFile(t, empty, "{}")
	res, err := Load(empty)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if res.Rows == nil {
		t.Error("expected non-nil rows for a payload without rows")
	}
}

func TestNew_EmitsLoaded(t *testing.T) {
	svc, _ := newTestService(t)

	event := waitFor(t, svc, EventLoaded)
	if event.Result == nil || event.Result.RowCount() != 2 {
		t.Errorf("loaded event result = %+v", event.Result)
	}
}

func TestWatchFileChange(t *testing.T) {
	svc, path := newTestService(t)
	waitFor(t, svc, EventLoaded)

	writeFile(t, path, `{"rows": [["2024-01-01 00:00:00", 1]]}`)

	event := waitFor(t, svc, EventChanged)
	if event.Result.RowCount() != 1 {
		t.Errorf("expected 1 row after reload, got %d", event.Result.RowCount())
	}
	if svc.Result().RowCount() != 1 {
		t.Errorf("Result() not updated, got %d rows", svc.Result().RowCount())
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	svc, path := newTestService(t)
	waitFor(t, svc, EventLoaded)

	writeFile(t, filepath.Join(filepath.Dir(path), "other.json"), "{}")

	select {
	case event := <-svc.Events():
		t.Errorf("unexpected event %+v", event)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReload_Error(t *testing.T) {
	svc, path := newTestService(t)
	waitFor(t, svc, EventLoaded)

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	svc.Reload()

	event := waitFor(t, svc, EventError)
	if event.Error == nil {
		t.Error("expected error in event")
	}
	if svc.Result().RowCount() != 2 {
		t.Error("previous result should be kept after a failed reload")
	}
}

func TestSendEvent_Full(t *testing.T) {
	svc, _ := newTestService(t)

	for range 110 {
		svc.sendEvent(Event{Type: EventChanged})
	}

	if len(svc.Events()) != 100 {
		t.Errorf("expected 100 events, got %d", len(svc.Events()))
	}
}
