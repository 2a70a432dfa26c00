package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sahanac12/lost-found/internal/db"
	"github.com/sahanac12/lost-found/internal/model"
)

func seedUser(t *testing.T, database *sql.DB, name, email, role string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, name, email, "hash", role)
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}

func foundReport(title string) NewReport {
	return NewReport{
		ReportType:   model.ReportTypeFound,
		Title:        title,
		Description:  "description",
		Category:     "electronics",
		Location:     "Main Hall",
		Date:         "2026-08-15",
		QuestionText: "What brand is it?",
		Answer:       "Acme",
	}
}

func TestCreateReport(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database, "Reporter", "reporter@example.com", model.RoleUser)

	report, err := CreateReport(ctx, database, user.ID, foundReport("Headphones"))
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report.ReportType != model.ReportTypeFound {
		t.Errorf("expected type 'found', got %q", report.ReportType)
	}

	item, err := GetItem(ctx, database, report.ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil {
		t.Fatal("expected item to be created with the report")
	}
	if item.Title != "Headphones" {
		t.Errorf("expected title 'Headphones', got %q", item.Title)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}

	// The reporter's question is stored unscoped to any claim.
	q, err := GetReporterQuestion(ctx, database, report.ItemID)
	if err != nil {
		t.Fatalf("GetReporterQuestion: %v", err)
	}
	if q == nil {
		t.Fatal("expected reporter question to be created with the report")
	}
	if q.ClaimID != nil {
		t.Errorf("reporter question must have no claim id, got %v", *q.ClaimID)
	}
	if q.Answer != "Acme" {
		t.Errorf("expected answer 'Acme', got %q", q.Answer)
	}
}

func TestCreateReportInvalidType(t *testing.T) {
	database := db.NewTestDB(t)
	user := seedUser(t, database, "Reporter", "reporter@example.com", model.RoleUser)

	nr := foundReport("Headphones")
	nr.ReportType = "stolen"
	if _, err := CreateReport(context.Background(), database, user.ID, nr); err == nil {
		t.Error("expected error for invalid report type")
	}
}

func TestGetFinder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	finder := seedUser(t, database, "Finder", "finder@example.com", model.RoleUser)
	loser := seedUser(t, database, "Loser", "loser@example.com", model.RoleUser)

	found, _ := CreateReport(ctx, database, finder.ID, foundReport("Wallet"))

	lost := foundReport("Scarf")
	lost.ReportType = model.ReportTypeLost
	lostReport, _ := CreateReport(ctx, database, loser.ID, lost)

	got, err := GetFinder(ctx, database, found.ItemID)
	if err != nil {
		t.Fatalf("GetFinder: %v", err)
	}
	if got == nil || got.ID != finder.ID {
		t.Errorf("expected finder %d, got %+v", finder.ID, got)
	}

	// A lost item has no finder.
	got, err = GetFinder(ctx, database, lostReport.ItemID)
	if err != nil {
		t.Fatalf("GetFinder: %v", err)
	}
	if got != nil {
		t.Errorf("expected no finder for a lost report, got %+v", got)
	}
}

func TestListReportsByUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := seedUser(t, database, "A", "a@example.com", model.RoleUser)
	b := seedUser(t, database, "B", "b@example.com", model.RoleUser)

	CreateReport(ctx, database, a.ID, foundReport("One"))
	CreateReport(ctx, database, a.ID, foundReport("Two"))
	CreateReport(ctx, database, b.ID, foundReport("Three"))

	mine, err := ListReportsByUser(ctx, database, a.ID)
	if err != nil {
		t.Fatalf("ListReportsByUser: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 reports, got %d", len(mine))
	}

	all, err := ListReports(ctx, database)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 reports, got %d", len(all))
	}
	for _, r := range all {
		if r.ReporterName == "" {
			t.Errorf("expected reporter name joined, got empty for report %d", r.ID)
		}
	}
}
