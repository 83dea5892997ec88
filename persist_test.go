package copycheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeCMS is an in-memory stand-in for the CMS update/get endpoints.
type fakeCMS struct {
	mu      sync.Mutex
	records map[string]map[string]any
	puts    int
}

func newFakeCMS() (*fakeCMS, *httptest.Server) {
	f := &fakeCMS{records: map[string]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		docID := r.URL.Path[len("/api/course-materials/"):]
		switch r.Method {
		case http.MethodPut:
			f.puts++
			var body struct {
				Data map[string]any `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			rec := f.records[docID]
			if rec == nil {
				rec = map[string]any{"documentId": docID, "id": float64(1)}
			}
			for k, v := range body.Data {
				rec[k] = v
			}
			f.records[docID] = rec
			_ = json.NewEncoder(w).Encode(map[string]any{"data": rec})
		case http.MethodGet:
			rec, ok := f.records[docID]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": rec})
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}))
	return f, srv
}

func TestPersistResult_RoundTrip(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeCMS()
	defer srv.Close()

	cfg := Config{CMS: &CMSClient{BaseURL: srv.URL, HTTPClient: srv.Client()}}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("Avengers_Full_Movie_HD.mp4", 1200, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	if err := cfg.PersistResult(context.Background(), "doc_42", res); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if fake.puts != 1 {
		t.Errorf("CMS writes = %d, want exactly one per check", fake.puts)
	}

	rec, err := cfg.CMS.Get(context.Background(), "course-materials", "doc_42")
	if err != nil {
		t.Fatalf("re-fetch: %v", err)
	}

	if rec["copyright_status"] != "failed" {
		t.Errorf("persisted status = %v, want failed", rec["copyright_status"])
	}
	if rec["copyright_fingerprint"] != res.Fingerprint {
		t.Errorf("persisted fingerprint = %v, want %q", rec["copyright_fingerprint"], res.Fingerprint)
	}
	if rec["copyright_provider"] != "automated" {
		t.Errorf("persisted provider = %v, want automated", rec["copyright_provider"])
	}
	if rec["copyright_checked_at"] == nil {
		t.Error("persisted record missing check timestamp")
	}

	// The violation list survives the round trip.
	raw, err := json.Marshal(rec["copyright_violations"])
	if err != nil {
		t.Fatalf("re-marshal violations: %v", err)
	}
	var violations []Violation
	if err := json.Unmarshal(raw, &violations); err != nil {
		t.Fatalf("decode violations: %v", err)
	}
	if len(violations) != len(res.Violations) {
		t.Fatalf("violations = %v, want %v", violations, res.Violations)
	}
	for i, v := range violations {
		if v.Type != res.Violations[i].Type || v.Confidence != res.Violations[i].Confidence {
			t.Errorf("violation %d = %+v, want %+v", i, v, res.Violations[i])
		}
	}

	// And the raw result payload preserves the status through its string form.
	raw, err = json.Marshal(rec["copyright_check_result"])
	if err != nil {
		t.Fatalf("re-marshal result: %v", err)
	}
	var stored CheckResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode stored result: %v", err)
	}
	if stored.Status != res.Status {
		t.Errorf("stored status = %v, want %v", stored.Status, res.Status)
	}
}

func TestPersistResult_FailureSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"status":500,"message":"boom"}}`))
	}))
	defer srv.Close()

	cfg := Config{CMS: &CMSClient{BaseURL: srv.URL, HTTPClient: srv.Client()}}
	res := newCheckResult(ProviderAutomated)
	res.Status = StatusPassed

	if err := cfg.PersistResult(context.Background(), "doc_1", res); err == nil {
		t.Fatal("expected persistence failure to surface, got nil")
	}
}

func TestPersistResult_NoCMSConfigured(t *testing.T) {
	t.Parallel()

	var cfg Config
	res := newCheckResult(ProviderAutomated)
	if err := cfg.PersistResult(context.Background(), "doc_1", res); err != ErrNoCMS {
		t.Errorf("err = %v, want ErrNoCMS", err)
	}
}
