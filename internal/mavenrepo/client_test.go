// SPDX-License-Identifier: MPL-2.0

package mavenrepo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const slf4jMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>org.slf4j</groupId>
  <artifactId>slf4j-api</artifactId>
  <versioning>
    <latest>2.1.0-alpha1</latest>
    <release>2.1.0-alpha1</release>
    <versions>
      <version>1.7.36</version>
      <version>2.0.9</version>
      <version>2.0.17</version>
      <version>2.1.0-alpha1</version>
    </versions>
  </versioning>
</metadata>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/maven2/org/slf4j/slf4j-api/maven-metadata.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(slf4jMetadata))
	})
	mux.HandleFunc("/maven2/org/example/only-rc/maven-metadata.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<metadata><versioning><versions><version>1.0.0-RC1</version></versions></versioning></metadata>`))
	})
	mux.HandleFunc("/maven2/org/example/broken/maven-metadata.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LatestStable(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c := NewClient(srv.URL+"/maven2/", WithHTTPClient(srv.Client()))

	version, err := c.LatestStable(context.Background(), "org.slf4j", "slf4j-api")
	if err != nil {
		t.Fatalf("LatestStable() error = %v", err)
	}
	if version != "2.0.17" {
		t.Errorf("LatestStable() = %q, want 2.0.17", version)
	}

	if _, err := c.LatestStable(context.Background(), "org.example", "only-rc"); !errors.Is(err, ErrNoStableVersion) {
		t.Errorf("expected ErrNoStableVersion, got %v", err)
	}
	if _, err := c.LatestStable(context.Background(), "org.example", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var statusErr *StatusError
	if _, err := c.LatestStable(context.Background(), "org.example", "broken"); !errors.As(err, &statusErr) || statusErr.Status != http.StatusBadGateway {
		t.Errorf("expected *StatusError 502, got %v", err)
	}
}

func TestClient_MetadataURL(t *testing.T) {
	t.Parallel()

	c := NewClient("https://repo.example/maven2/")
	if got, want := c.MetadataURL("com.fasterxml.jackson.core", "jackson-core"),
		"https://repo.example/maven2/com/fasterxml/jackson/core/jackson-core/maven-metadata.xml"; got != want {
		t.Errorf("MetadataURL() = %q, want %q", got, want)
	}
}

func TestClient_Canceled(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL+"/maven2", WithHTTPClient(srv.Client())).Metadata(ctx, "org.slf4j", "slf4j-api"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsStable(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"2.0.17":         true,
		"33.4.0-jre":     true,
		"1.0.0-RC1":      false,
		"5.0.0-M2":       false,
		"2.1.0-alpha1":   false,
		"3.0.0-beta-2":   false,
		"1.2-b03":        false,
		"21-ea":          false,
		"6.0.0.CR1":      false,
		"1.0-SNAPSHOT":   false,
		"":               false,
	}
	for version, want := range tests {
		if got := IsStable(version); got != want {
			t.Errorf("IsStable(%q) = %v, want %v", version, got, want)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"2.0.9", "2.0.17", -1},
		{"2.0.17", "2.0.17", 0},
		{"33.4.0-jre", "32.1.3-jre", 1},
		{"1.2.3.4", "1.2.3.10", -1},
		{"1.2.3.4", "1.2.3", 1},
		{"2.5", "2.5.1", -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if v, ok := LatestStable([]string{"1.9", "1.10", "2.0-rc1"}); !ok || v != "1.10" {
		t.Errorf("LatestStable() = %q, %v", v, ok)
	}
}
