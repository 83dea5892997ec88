package copycheck

import "testing"

func TestPreCheckSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		want     Rights
		wantSkip bool
	}{
		{
			name:     "open-license host is conclusive",
			url:      "https://archive.org/details/clip",
			want:     RightsLicensed,
			wantSkip: true,
		},
		{
			name: "piracy host flows through the full pipeline",
			url:  "https://thepiratebay.org/torrent/123",
			want: RightsUnknown,
		},
		{
			name: "unknown host flows through",
			url:  "https://example.com/file.mp4",
			want: RightsUnknown,
		},
		{
			name: "empty URL flows through",
			url:  "",
			want: RightsUnknown,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, skip := PreCheckSource(tc.url)
			if got != tc.want || skip != tc.wantSkip {
				t.Errorf("PreCheckSource(%q) = (%v, %v), want (%v, %v)", tc.url, got, skip, tc.want, tc.wantSkip)
			}
		})
	}
}
