package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vcaboara/jobleadfinder/internal/database"
)

// failingDB satisfies database.DBTX and fails writes for a chosen lead title,
// recording every title it was asked to insert.
type failingDB struct {
	failTitle string
	inserted  []string
}

func (f *failingDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	title, _ := args[1].(string)
	if title == f.failTitle {
		return nil, errors.New("deadlock detected")
	}
	f.inserted = append(f.inserted, title)
	return driver.RowsAffected(1), nil
}

func (f *failingDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errors.New("not implemented")
}

func (f *failingDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *failingDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func TestRecordLeadsContinuesPastFailedWrite(t *testing.T) {
	leads := fiveLeads()
	db := &failingDB{failTitle: leads[2].Title}

	app := testApp(nil)
	app.DB = database.New(db)
	app.recordLeads(context.Background(), leads)

	if len(db.inserted) != len(leads)-1 {
		t.Fatalf("got %d inserted leads, want %d", len(db.inserted), len(leads)-1)
	}
	for _, title := range db.inserted {
		if title == leads[2].Title {
			t.Errorf("failed lead %q was recorded anyway", title)
		}
	}
	// The leads after the failing one must still be written.
	last := db.inserted[len(db.inserted)-1]
	if last != leads[4].Title {
		t.Errorf("batch stopped early: last inserted lead is %q, want %q", last, leads[4].Title)
	}
}

func TestRecordLeadsNullableColumns(t *testing.T) {
	db := &failingDB{}
	app := testApp(nil)
	app.DB = database.New(db)

	bare := JobLead{Title: "t", Company: "c", Summary: "s", URL: "u"}
	app.recordLeads(context.Background(), []JobLead{bare})

	if len(db.inserted) != 1 {
		t.Fatalf("got %d inserted leads, want 1", len(db.inserted))
	}
}

func TestLeadDocStampsTimestampAndUser(t *testing.T) {
	lead := JobLead{
		Title:   "Grid Engineer",
		Company: "GreenGrid",
		Summary: "Decarbonize the grid.",
		URL:     "https://example.com/jobs/1",
	}

	doc := leadDoc(lead, "test-user")

	if doc["userId"] != "test-user" {
		t.Errorf("userId = %v", doc["userId"])
	}
	ts, ok := doc["timestamp"].(string)
	if !ok || ts == "" {
		t.Fatalf("timestamp = %v", doc["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", ts, err)
	}

	for _, key := range []string{"title", "company", "summary", "url"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing %q", key)
		}
	}
	// Optional fields stay out of the document when empty.
	for _, key := range []string{"location", "mandate", "relevance_score"} {
		if _, ok := doc[key]; ok {
			t.Errorf("empty optional field %q was written", key)
		}
	}
}

func TestLeadDocKeepsOptionalFields(t *testing.T) {
	lead := JobLead{
		Title:          "Grid Engineer",
		Company:        "GreenGrid",
		Location:       "Remote",
		Summary:        "Decarbonize the grid.",
		URL:            "https://example.com/jobs/1",
		Mandate:        aifMandates[0],
		RelevanceScore: 9,
	}

	doc := leadDoc(lead, "test-user")

	if doc["location"] != "Remote" {
		t.Errorf("location = %v", doc["location"])
	}
	if doc["mandate"] != aifMandates[0] {
		t.Errorf("mandate = %v", doc["mandate"])
	}
	if fmt.Sprint(doc["relevance_score"]) != "9" {
		t.Errorf("relevance_score = %v", doc["relevance_score"])
	}
}
