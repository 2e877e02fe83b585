package metadata

import "testing"

func TestParseSeriesInfo(t *testing.T) {
	tests := []struct {
		path string
		want SeriesInfo
		ok   bool
	}{
		{
			path: "South Park - S01E01 - Cartman Gets an Anal Probe.srt",
			want: SeriesInfo{Series: "South Park", Season: 1, Episode: 1},
			ok:   true,
		},
		{
			path: "Breaking.Bad.S02E05.720p.WEB-DL.srt",
			want: SeriesInfo{Series: "Breaking Bad", Season: 2, Episode: 5},
			ok:   true,
		},
		{
			path: "/library/tv/Firefly 1x03.mkv",
			want: SeriesInfo{Series: "Firefly", Season: 1, Episode: 3},
			ok:   true,
		},
		{
			path: "the_wire_s03e11.ass",
			want: SeriesInfo{Series: "the wire", Season: 3, Episode: 11},
			ok:   true,
		},
		{path: "Inception.2010.1080p.BluRay.srt"},
		{path: "notes.txt"},
	}

	for _, tt := range tests {
		got, ok := ParseSeriesInfo(tt.path)
		if ok != tt.ok {
			t.Errorf("ParseSeriesInfo(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseSeriesInfo(%q) = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}

func TestTVDBLanguage(t *testing.T) {
	if lang, ok := TVDBLanguage("es"); !ok || lang != "spa" {
		t.Errorf("TVDBLanguage(es) = %q, %v", lang, ok)
	}
	if _, ok := TVDBLanguage("xx"); ok {
		t.Error("TVDBLanguage(xx) should not resolve")
	}
}
