package dict

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureJMdictLeavesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jmdict.json")
	if err := os.WriteFile(path, []byte(`{"words":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	// No stub server configured, so any network attempt would fail.
	if err := EnsureJMdict(context.Background(), path); err != nil {
		t.Fatalf("EnsureJMdict with existing file: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{"words":[]}` {
		t.Error("existing file was overwritten")
	}
}

func TestEnsureJMdictDownloadsAndExtracts(t *testing.T) {
	const dictJSON = `{"words":[{"id":"1"}]}`
	tgz := makeTGZ(t, "jmdict-eng-common-3.5.0.json", dictJSON)

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		w.Write(tgz)
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"assets": []map[string]string{
				{"name": "jmdict-all-3.5.0.json.tgz", "browser_download_url": srv.URL + "/wrong"},
				{"name": "jmdict-eng-common-3.5.0.json.tgz", "browser_download_url": srv.URL + "/asset"},
			},
		})
	})

	old := jmdictReleaseAPI
	jmdictReleaseAPI = srv.URL + "/latest"
	defer func() { jmdictReleaseAPI = old }()

	path := filepath.Join(t.TempDir(), "jmdict.json")
	if err := EnsureJMdict(context.Background(), path); err != nil {
		t.Fatalf("EnsureJMdict: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != dictJSON {
		t.Errorf("extracted content = %q", data)
	}
}

func makeTGZ(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(content)),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
