package reports

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildArchive(t *testing.T) {
	files := []archiveFile{
		{name: "project_ec1.csv", content: []byte("a,b\r\n")},
		{name: "subrecipients.csv", content: []byte("c,d\r\n")},
	}

	content, err := buildArchive(files)
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("got %d entries, want 2", len(zr.File))
	}
	for i, want := range files {
		if zr.File[i].Name != want.name {
			t.Errorf("entry %d = %s, want %s", i, zr.File[i].Name, want.name)
		}
		rc, err := zr.File[i].Open()
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want.content) {
			t.Errorf("entry %s content = %q, want %q", want.name, got, want.content)
		}
	}
}

func TestRenderRejectsColumnMismatch(t *testing.T) {
	exporter := &Exporter{
		Category: Category{Name: "project_ec1.csv"},
		header:   []string{"a", "b", "c"},
		rows:     [][]string{{"1", "2"}},
	}

	if _, err := exporter.Render(); !errors.Is(err, ErrTemplateMismatch) {
		t.Fatalf("got %v, want ErrTemplateMismatch", err)
	}
}

func TestReportFilename(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	generated := time.Date(2026, 3, 31, 12, 30, 0, 0, time.UTC)

	got := reportFilename("Granite State", id, generated)
	want := "Granite-State-Period-6ba7b810-9dad-11d1-80b4-00c04fd430c8-Treasury-Report-generated-2026-03-31T12-30-00Z.zip"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
