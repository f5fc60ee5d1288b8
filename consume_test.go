package main

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRunSearchJob(t *testing.T) {
	finder := &stubFinder{leads: fiveLeads()}
	app := testApp(finder)

	job := SearchJob{ID: uuid.New(), Query: "platform engineer", CreatedAt: time.Now()}
	if err := app.runSearchJob(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finder.lastQuery != "platform engineer" {
		t.Errorf("query passed through as %q", finder.lastQuery)
	}
}

func TestRunSearchJobWithoutFinder(t *testing.T) {
	app := testApp(nil)
	err := app.runSearchJob(SearchJob{ID: uuid.New(), Query: "x"})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error %q does not name the missing credential", err)
	}
}

func TestRunSearchJobResumeWithoutObjectStorage(t *testing.T) {
	app := testApp(&stubFinder{leads: fiveLeads()})

	job := SearchJob{
		ID:              uuid.New(),
		Query:           "x",
		ResumeObjectKey: "resumes/abc.pdf",
		ResumeMime:      "application/pdf",
	}
	err := app.runSearchJob(job)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "object storage") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractResumeTextPlain(t *testing.T) {
	got, err := ExtractResumeText("text/plain", []byte("ten years of Go"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "ten years of Go" {
		t.Errorf("got %q", got)
	}
}

func TestExtractResumeTextUnsupportedMime(t *testing.T) {
	if _, err := ExtractResumeText("image/png", []byte{1, 2, 3}); err == nil {
		t.Fatal("expected unsupported-type error")
	}
}
