package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func archiveNames(t *testing.T, path string) map[string]string {
	t.Helper()

	rd, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("unable to open report archive: %v", err)
	}
	defer rd.Close()

	names := make(map[string]string)
	for _, f := range rd.File {
		r, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open archive entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("unable to read archive entry %s: %v", f.Name, err)
		}
		names[f.Name] = string(data)
	}
	return names
}

func TestReportClose(t *testing.T) {
	dir := t.TempDir()

	stored := filepath.Join(dir, "input.css")
	if err := os.WriteFile(stored, []byte(".para { color: red; }"), 0644); err != nil {
		t.Fatalf("unable to write test file: %v", err)
	}

	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if len(r.Name()) == 0 {
		t.Error("Name() returned empty string for initialized report")
	}

	r.Store("input/input.css", stored)
	r.Store("final.log", filepath.Join(dir, "no-such.log")) // absent, must be skipped
	r.StoreData("config/config.yaml", []byte("version: 1\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	names := archiveNames(t, conf.Destination)
	if _, ok := names["MANIFEST"]; !ok {
		t.Error("report archive has no MANIFEST")
	}
	if got, ok := names["input/input.css"]; !ok {
		t.Error("stored file missing from report archive")
	} else if got != ".para { color: red; }" {
		t.Errorf("stored file content = %q", got)
	}
	if got, ok := names["config/config.yaml"]; !ok {
		t.Error("stored data missing from report archive")
	} else if got != "version: 1\n" {
		t.Errorf("stored data content = %q", got)
	}
	if _, ok := names["final.log"]; ok {
		t.Error("absent file should not appear in report archive")
	}
}

func TestReportStoreDataVersioning(t *testing.T) {
	dir := t.TempDir()

	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	r.StoreData("dump", []byte("first"))
	r.StoreData("dump", []byte("second"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	names := archiveNames(t, conf.Destination)
	// MANIFEST plus two versioned entries
	if len(names) != 3 {
		t.Errorf("expected 3 archive entries, got %d", len(names))
	}
}

func TestReportNil(t *testing.T) {
	var r *Report

	// none of these should panic or error
	r.Store("name", "path")
	r.StoreData("name", []byte("data"))
	if n := r.Name(); n != "" {
		t.Errorf("Name() on nil report = %q, want empty", n)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report error: %v", err)
	}

	r = &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close() with nil file error: %v", err)
	}
}
