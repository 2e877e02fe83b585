package metadata

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

type stubTranslator struct {
	calls []string
}

func (s *stubTranslator) Translate(_ context.Context, text, targetCode string) (string, error) {
	s.calls = append(s.calls, text+"->"+targetCode)
	return "MT " + text, nil
}

func catalogMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]string{"token": "tok"}})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "South Park" {
			writeJSON(t, w, map[string]any{"data": []map[string]string{}})
			return
		}
		writeJSON(t, w, map[string]any{"data": []map[string]string{{"tvdb_id": "75897"}}})
	})
	mux.HandleFunc("/series/75897/episodes/default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"episodes": []map[string]any{{"id": 300, "seasonNumber": 1, "number": 1}},
		}})
	})
	mux.HandleFunc("/series/75897/translations/eng", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]string{"name": "South Park"}})
	})
	mux.HandleFunc("/series/75897/translations/spa", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]string{"name": "South Park (ES)"}})
	})
	mux.HandleFunc("/episodes/300/translations/eng", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]string{"name": "Cartman Gets an Anal Probe"}})
	})
	mux.HandleFunc("/episodes/300/translations/spa", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	return mux
}

func TestBuilderBuild(t *testing.T) {
	c := newTestClient(t, catalogMux(t))
	mt := &stubTranslator{}
	b := NewBuilder(c, mt, nil)

	got, err := b.Build(context.Background(), "South Park - S01E01 - Pilot.srt", "en", "es")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Context about this series/episode",
		"Series title (English): South Park",
		"Series title (Spanish): South Park (ES)",
		"Episode title (English, S01E01): Cartman Gets an Anal Probe",
		"Episode title (Spanish, S01E01): MT Cartman Gets an Anal Probe",
	}
	for _, line := range want {
		if !strings.Contains(got, line) {
			t.Errorf("context missing %q:\n%s", line, got)
		}
	}
	if len(mt.calls) != 1 || mt.calls[0] != "Cartman Gets an Anal Probe->es" {
		t.Errorf("machine translation calls = %v", mt.calls)
	}
}

func TestBuilderBuildNoEpisodeMarker(t *testing.T) {
	c := newTestClient(t, catalogMux(t))
	b := NewBuilder(c, nil, nil)

	got, err := b.Build(context.Background(), "Inception.2010.1080p.BluRay.srt", "en", "es")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("context = %q, want empty", got)
	}
}

func TestBuilderBuildUnknownSeries(t *testing.T) {
	c := newTestClient(t, catalogMux(t))
	b := NewBuilder(c, nil, nil)

	got, err := b.Build(context.Background(), "Obscure Show - S01E01.srt", "en", "es")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("context = %q, want empty", got)
	}
}

func TestBuilderBuildAutoSourceUsesTargetOnly(t *testing.T) {
	c := newTestClient(t, catalogMux(t))
	mt := &stubTranslator{}
	b := NewBuilder(c, mt, nil)

	got, err := b.Build(context.Background(), "South Park - S01E01.srt", "auto", "es")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "(English)") {
		t.Errorf("auto source should not add an English side:\n%s", got)
	}
	if !strings.Contains(got, "Series title (Spanish): South Park (ES)") {
		t.Errorf("missing Spanish series title:\n%s", got)
	}
}
