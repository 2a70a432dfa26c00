package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/store"
)

// ClaimsHandler handles the claimant-facing claim endpoints.
type ClaimsHandler struct {
	DB *sql.DB
}

type createClaimRequest struct {
	Proof          string `json:"proof"`
	SecurityAnswer string `json:"security_answer"`
}

// Create handles POST /api/items/{id}/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	tokenClaims := GetClaims(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Proof == "" {
		jsonError(w, http.StatusBadRequest, "proof description is required")
		return
	}
	if req.SecurityAnswer == "" {
		jsonError(w, http.StatusBadRequest, "security answer is required")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, "item is no longer open for claims")
		return
	}

	claim, err := store.CreateClaim(r.Context(), h.DB, tokenClaims.UserID, itemID, req.Proof, req.SecurityAnswer)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateClaim) {
			jsonError(w, http.StatusConflict, "you already have a pending claim for this item")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to submit claim")
		return
	}

	slog.Info("claim submitted", "user", tokenClaims.Email, "item", itemID, "claim", claim.ID)
	jsonResponse(w, http.StatusCreated, claim)
}

// ListMine handles GET /api/claims/mine.
func (h *ClaimsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	tokenClaims := GetClaims(r.Context())

	claims, err := store.ListClaimsByUser(r.Context(), h.DB, tokenClaims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.ClaimRequest{}
	}

	// Pickup codes are only revealed to their owner once approved; pending
	// and rejected rows never carry one anyway.
	jsonResponse(w, http.StatusOK, claims)
}
