package store

import (
	"context"
	"testing"

	"github.com/sahanac12/lost-found/internal/db"
	"github.com/sahanac12/lost-found/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}

	got, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("expected user %d, got %+v", user.ID, got)
	}

	// Duplicate email violates the unique constraint.
	if _, err := CreateUser(ctx, database, "Other", "alice@example.com", "hash", model.RoleUser); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestDeleteUserCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	finder := seedUser(t, database, "Finder", "finder@example.com", model.RoleUser)
	claimant := seedUser(t, database, "Claimant", "claimant@example.com", model.RoleUser)
	report, _ := CreateReport(ctx, database, finder.ID, foundReport("Wallet"))
	claim, _ := CreateClaim(ctx, database, claimant.ID, report.ItemID, "proof", "answer")

	if err := DeleteUser(ctx, database, claimant.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got != nil {
		t.Error("expected claim removed with its owner")
	}
	answer, _ := GetClaimantAnswer(ctx, database, claim.ID)
	if answer != nil {
		t.Error("expected claimant answer removed with the claim")
	}

	// The finder's report and the item survive.
	r, _ := GetReport(ctx, database, report.ID)
	if r == nil {
		t.Error("expected finder's report untouched")
	}
}
