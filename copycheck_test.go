package copycheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func upload(name string, sizeMB int64, mimeType string) *FileUpload {
	return &FileUpload{
		Name:     name,
		Size:     sizeMB * 1024 * 1024,
		Modified: time.UnixMilli(1700000000000),
		MIMEType: mimeType,
		Data:     []byte("content bytes standing in for " + name),
	}
}

func TestCheck_OriginalUploadPasses(t *testing.T) {
	t.Parallel()

	var cfg Config
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("my_original_demo.mp4", 50, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusPassed {
		t.Errorf("status = %v, want passed", res.Status)
	}
	if len(res.Violations) != 0 {
		t.Errorf("violations = %v, want none", res.Violations)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", res.Warnings)
	}
	if res.Fingerprint == "" {
		t.Error("expected a fingerprint")
	}
	if res.Provider != "automated" {
		t.Errorf("provider = %q, want automated", res.Provider)
	}
}

func TestCheck_PiratedReleaseFails(t *testing.T) {
	t.Parallel()

	var cfg Config
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("Avengers_Full_Movie_HD.mp4", 1200, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	types := violationTypes(res)
	if !types["suspicious_filename"] {
		t.Errorf("violations %v missing suspicious_filename", res.Violations)
	}
	if !types["very_large_file"] {
		t.Errorf("violations %v missing very_large_file", res.Violations)
	}
}

func TestCheck_SizePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sizeMB     int64
		wantStatus Status
		wantViol   string
		wantWarn   string
	}{
		{
			name:       "over 1000 MB fails",
			sizeMB:     1001,
			wantStatus: StatusFailed,
			wantViol:   "very_large_file",
		},
		{
			name:       "700 MB warns",
			sizeMB:     700,
			wantStatus: StatusWarning,
			wantWarn:   "large_file",
		},
		{
			name:       "exactly 1000 MB warns",
			sizeMB:     1000,
			wantStatus: StatusWarning,
			wantWarn:   "large_file",
		},
		{
			name:       "exactly 500 MB passes",
			sizeMB:     500,
			wantStatus: StatusPassed,
		},
		{
			name:       "small file passes",
			sizeMB:     50,
			wantStatus: StatusPassed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var cfg Config
			res, err := cfg.Check(context.Background(), CheckRequest{
				Provider: ProviderAutomated,
				File:     upload("recorded_session.mp4", tc.sizeMB, "video/mp4"),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.wantStatus {
				t.Errorf("status = %v, want %v", res.Status, tc.wantStatus)
			}
			if tc.wantViol != "" && !violationTypes(res)[tc.wantViol] {
				t.Errorf("violations %v missing %s", res.Violations, tc.wantViol)
			}
			if tc.wantWarn != "" && !warningTypes(res)[tc.wantWarn] {
				t.Errorf("warnings %v missing %s", res.Warnings, tc.wantWarn)
			}
			if tc.wantViol != "" {
				for _, v := range res.Violations {
					if v.Type == tc.wantViol && v.Confidence != 0.6 {
						t.Errorf("very_large_file confidence = %v, want 0.6", v.Confidence)
					}
				}
			}
		})
	}
}

func TestCheck_SuspiciousFilenameConfidence(t *testing.T) {
	t.Parallel()

	var cfg Config
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("show.S01E01.WEBRip.mp4", 10, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	found := false
	for _, v := range res.Violations {
		if v.Type == "suspicious_filename" {
			found = true
			if v.Confidence != 0.7 {
				t.Errorf("confidence = %v, want 0.7", v.Confidence)
			}
		}
	}
	if !found {
		t.Errorf("violations %v missing suspicious_filename", res.Violations)
	}
}

func TestCheck_ManualProviderIsTerminal(t *testing.T) {
	t.Parallel()

	var cfg Config
	// Even a blatantly suspicious upload goes to manual review when the
	// caller selects the manual provider.
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderManual,
		File:     upload("Avengers_Full_Movie_HD.DVDRip.mp4", 1200, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusManualReview {
		t.Errorf("status = %v, want manual_review", res.Status)
	}
	if len(res.Violations) != 0 || len(res.Warnings) != 0 {
		t.Errorf("manual review must not carry automated findings: %v / %v", res.Violations, res.Warnings)
	}
	if res.Fingerprint == "" {
		t.Error("expected a fingerprint even for manual review")
	}
	if res.Provider != "manual" {
		t.Errorf("provider = %q, want manual", res.Provider)
	}
}

func TestCheck_PlatformMatchSkipsNonYouTube(t *testing.T) {
	t.Parallel()

	var cfg Config
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderPlatformMatch,
		SourceURL: "https://vimeo.com/123456789",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusPassed {
		t.Errorf("status = %v, want passed", res.Status)
	}
	if res.Metadata["note"] == nil {
		t.Error("expected a skip note")
	}
	if res.Provider != "platform_match" {
		t.Errorf("provider = %q, want platform_match", res.Provider)
	}
}

func TestCheck_RequestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     CheckRequest
		wantErr error
	}{
		{
			name:    "automated without input",
			req:     CheckRequest{Provider: ProviderAutomated},
			wantErr: ErrNoInput,
		},
		{
			name:    "platform match without URL",
			req:     CheckRequest{Provider: ProviderPlatformMatch},
			wantErr: ErrNoSourceURL,
		},
		{
			name: "nameless file",
			req: CheckRequest{
				Provider: ProviderAutomated,
				File:     &FileUpload{Data: []byte("x")},
			},
			wantErr: ErrEmptyFileName,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var cfg Config
			_, err := cfg.Check(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCheck_URLSourcedDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("fake video payload"))
	}))
	defer srv.Close()

	cfg := Config{HTTPClient: srv.Client()}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		SourceURL: srv.URL + "/Avengers_Full_Movie_HD.mp4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The filename recovered from the URL path drives the heuristics.
	if res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	if !violationTypes(res)["suspicious_filename"] {
		t.Errorf("violations %v missing suspicious_filename", res.Violations)
	}
	if res.Fingerprint == "" {
		t.Error("expected fingerprint from downloaded bytes")
	}
}

func TestCheck_BlockedSourcePathFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	cfg := Config{HTTPClient: srv.Client()}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		SourceURL: srv.URL + "/torrent/12345/clip.mp4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	if !violationTypes(res)["blocked_source_domain"] {
		t.Errorf("violations %v missing blocked_source_domain", res.Violations)
	}
}

func TestCheck_OpenLicenseSourceShortCircuits(t *testing.T) {
	t.Parallel()

	// No HTTP server: a conclusive open-license host must not trigger any
	// network call.
	var cfg Config
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		SourceURL: "https://archive.org/details/public_domain_clip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusPassed {
		t.Errorf("status = %v, want passed", res.Status)
	}
	if len(res.Signals) != 1 || res.Signals[0].Rights != RightsLicensed {
		t.Errorf("signals = %v, want one licensed host signal", res.Signals)
	}
}

func TestCheck_ExtraBlockedHostFails(t *testing.T) {
	t.Parallel()

	cfg := Config{ExtraBlockedDomains: []string{"stock-mirror.example"}}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		File:      upload("diagram.jpg", 1, "image/jpeg"),
		SourceURL: "https://stock-mirror.example/photo.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
	if !violationTypes(res)["blocked_source_domain"] {
		t.Errorf("violations %v missing blocked_source_domain", res.Violations)
	}
}

func TestCheck_CCLicensedPagePasses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Open Course Clip</title></head>` +
			`<body><a rel="license" href="https://creativecommons.org/licenses/by/4.0/">CC BY 4.0</a></body></html>`))
	}))
	defer srv.Close()

	cfg := Config{HTTPClient: srv.Client()}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		SourceURL: srv.URL + "/clip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusPassed {
		t.Errorf("status = %v, want passed", res.Status)
	}
	if res.Metadata["page_license"] != "https://creativecommons.org/licenses/by/4.0/" {
		t.Errorf("page_license = %v, want CC BY URL", res.Metadata["page_license"])
	}
	if res.Metadata["page_title"] != "Open Course Clip" {
		t.Errorf("page_title = %v, want Open Course Clip", res.Metadata["page_title"])
	}
}

func TestCheck_UnretrievableSourceWarns(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>no license here</body></html>`))
	}))
	defer srv.Close()

	cfg := Config{HTTPClient: srv.Client()}
	res, err := cfg.Check(context.Background(), CheckRequest{
		Provider:  ProviderAutomated,
		SourceURL: srv.URL + "/page",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != StatusWarning {
		t.Errorf("status = %v, want warning", res.Status)
	}
	if !warningTypes(res)["unverified"] {
		t.Errorf("warnings %v missing unverified", res.Warnings)
	}
}

func TestCheck_FreshResultPerInvocation(t *testing.T) {
	t.Parallel()

	var cfg Config
	req := CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("my_original_demo.mp4", 50, "video/mp4"),
	}
	first, err := cfg.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cfg.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("Check returned the same result pointer across invocations")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprints differ for identical input: %q vs %q", first.Fingerprint, second.Fingerprint)
	}
}

func TestCheck_VerdictCallback(t *testing.T) {
	t.Parallel()

	var events []VerdictEvent
	cfg := Config{OnVerdict: func(e VerdictEvent) { events = append(events, e) }}

	_, err := cfg.Check(context.Background(), CheckRequest{
		Provider: ProviderAutomated,
		File:     upload("show.S01E01.mp4", 10, "video/mp4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected exactly one verdict event, got %d", len(events))
	}
	if events[0].Status != StatusFailed {
		t.Errorf("event status = %v, want failed", events[0].Status)
	}
	if events[0].Source != "aggregate" {
		t.Errorf("event source = %q, want aggregate", events[0].Source)
	}
	if events[0].Violations != 1 {
		t.Errorf("event violations = %d, want 1", events[0].Violations)
	}
}

func violationTypes(res *CheckResult) map[string]bool {
	types := map[string]bool{}
	for _, v := range res.Violations {
		types[v.Type] = true
	}
	return types
}

func warningTypes(res *CheckResult) map[string]bool {
	types := map[string]bool{}
	for _, w := range res.Warnings {
		types[w.Type] = true
	}
	return types
}
