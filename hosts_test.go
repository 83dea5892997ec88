package copycheck

import (
	"testing"
)

func TestClassifySource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want Rights
	}{
		{
			name: "piratebay blocked",
			url:  "https://thepiratebay.org/description.php?id=123",
			want: RightsInfringing,
		},
		{
			name: "1337x blocked",
			url:  "https://1337x.to/torrent/123/film/",
			want: RightsInfringing,
		},
		{
			name: "streaming mirror blocked",
			url:  "https://ww4.fmovies.co/film/avengers",
			want: RightsInfringing,
		},
		{
			name: "torrent path pattern on unknown host",
			url:  "https://example.com/torrent/12345",
			want: RightsInfringing,
		},
		{
			name: "full-movie path pattern on unknown host",
			url:  "https://example.com/watch/full-movie/avengers",
			want: RightsInfringing,
		},
		{
			name: "archive.org licensed",
			url:  "https://archive.org/details/night_of_the_living_dead",
			want: RightsLicensed,
		},
		{
			name: "wikimedia commons licensed",
			url:  "https://commons.wikimedia.org/wiki/File:Example.ogv",
			want: RightsLicensed,
		},
		{
			name: "pixabay licensed",
			url:  "https://pixabay.com/videos/clouds-123/",
			want: RightsLicensed,
		},
		{
			name: "unknown host",
			url:  "https://example.com/media/lecture.mp4",
			want: RightsUnknown,
		},
		{
			name: "empty URL",
			url:  "",
			want: RightsUnknown,
		},
		{
			name: "malformed URL",
			url:  "://bad",
			want: RightsUnknown,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifySource(tc.url); got != tc.want {
				t.Errorf("ClassifySource(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestClassifySourceWith_ExtraLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		url          string
		extraBlocked []string
		extraSafe    []string
		want         Rights
	}{
		{
			name:         "extra blocked host",
			url:          "https://shady-mirror.example.net/file.mp4",
			extraBlocked: []string{"shady-mirror"},
			want:         RightsInfringing,
		},
		{
			name:      "extra safe host",
			url:       "https://media.university.edu/oer/lecture.mp4",
			extraSafe: []string{"university.edu"},
			want:      RightsLicensed,
		},
		{
			name:         "blocked beats safe",
			url:          "https://both.example.com/x",
			extraBlocked: []string{"both.example.com"},
			extraSafe:    []string{"both.example.com"},
			want:         RightsInfringing,
		},
		{
			name: "no extras falls back to unknown",
			url:  "https://example.com/x",
			want: RightsUnknown,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ClassifySourceWith(tc.url, tc.extraBlocked, tc.extraSafe)
			if got != tc.want {
				t.Errorf("ClassifySourceWith(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestRights_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range []Rights{RightsLicensed, RightsUnknown, RightsInfringing} {
		data, err := r.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %v: %v", r, err)
		}
		var back Rights
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != r {
			t.Errorf("round trip %v → %s → %v", r, data, back)
		}
	}
}
