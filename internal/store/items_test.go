package store

import (
	"context"
	"testing"

	"github.com/sahanac12/lost-found/internal/db"
	"github.com/sahanac12/lost-found/internal/model"
)

func TestListActiveItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database, "Reporter", "reporter@example.com", model.RoleUser)
	r1, _ := CreateReport(ctx, database, user.ID, foundReport("One"))
	CreateReport(ctx, database, user.ID, foundReport("Two"))

	UpdateItemStatus(ctx, database, r1.ItemID, model.ItemStatusResolved)

	items, err := ListActiveItems(ctx, database)
	if err != nil {
		t.Fatalf("ListActiveItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 active item, got %d", len(items))
	}
	if items[0].Title != "Two" {
		t.Errorf("expected 'Two' to stay listed, got %q", items[0].Title)
	}
	if items[0].ReportType != model.ReportTypeFound {
		t.Errorf("expected report type joined, got %q", items[0].ReportType)
	}
	if items[0].ReporterName != "Reporter" {
		t.Errorf("expected reporter name joined, got %q", items[0].ReporterName)
	}
}

func TestUpdateItemStatusInvalid(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database, "Reporter", "reporter@example.com", model.RoleUser)
	report, _ := CreateReport(ctx, database, user.ID, foundReport("One"))

	if err := UpdateItemStatus(ctx, database, report.ItemID, "misplaced"); err == nil {
		t.Error("expected error for invalid status")
	}

	item, _ := GetItem(ctx, database, report.ItemID)
	if item.Status != model.ItemStatusActive {
		t.Errorf("status must be unchanged, got %q", item.Status)
	}
}
