package vocab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchContext_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		w.Write([]byte(`{"@context": {"processing step": "http://example.org/Step", "foo": "http://example.org/foo"}}`))
	}))
	defer srv.Close()

	got := FetchContext(context.Background(), srv.Client(), srv.URL)
	if got["foo"] != "http://example.org/foo" {
		t.Errorf("foo = %v", got["foo"])
	}
}

func TestFetchContext_DegradesToEmpty(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer garbage.Close()

	noContext := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"@graph": []}`))
	}))
	defer noContext.Close()

	for name, url := range map[string]string{
		"404":        notFound.URL,
		"not json":   garbage.URL,
		"no context": noContext.URL,
		"empty url":  "",
	} {
		t.Run(name, func(t *testing.T) {
			got := FetchContext(context.Background(), http.DefaultClient, url)
			if got == nil || len(got) != 0 {
				t.Errorf("FetchContext = %v, want empty map", got)
			}
		})
	}
}

func TestMergeContext(t *testing.T) {
	merged := MergeContext(map[string]any{
		TermHasInput: "http://example.org/input",
		PrefixLocal:  "http://wrong.example/",
	}, "https://local-domain.org/abc/")

	if merged[TermHasInput] != "http://example.org/input" {
		t.Errorf("fetched terms should override base terms, got %v", merged[TermHasInput])
	}
	if merged[PrefixLocal] != "https://local-domain.org/abc/" {
		t.Errorf("local = %v, want run namespace", merged[PrefixLocal])
	}
	if merged[PrefixUnits] != Units {
		t.Errorf("units = %v", merged[PrefixUnits])
	}
	if merged[TermHasOutput] == nil {
		t.Error("base term missing from merged context")
	}
}
