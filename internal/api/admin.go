package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/sahanac12/lost-found/internal/claims"
	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/store"
)

// AdminHandler handles the admin review and handover endpoints.
type AdminHandler struct {
	DB     *sql.DB
	Engine *claims.Engine
}

type decideRequest struct {
	ActionType string `json:"action_type"`
	Remarks    string `json:"remarks"`
}

type verifyRequest struct {
	PickupCode string `json:"pickup_code"`
}

type statsResponse struct {
	TotalReports  int                  `json:"total_reports"`
	TotalItems    int                  `json:"total_items"`
	PendingClaims int                  `json:"pending_claims"`
	RecentClaims  []model.ClaimRequest `json:"recent_claims"`
}

// engineError maps engine errors onto HTTP statuses: unknown code or claim
// is 404, out-of-order verification is 400, a lost decision race is 409,
// and anything else is a persistence failure.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claims.ErrNotFound):
		jsonError(w, http.StatusNotFound, "invalid pickup code or claim not approved")
	case errors.Is(err, claims.ErrHandoverIncomplete):
		jsonError(w, http.StatusBadRequest, "item not yet received from finder, complete step 1 first")
	case errors.Is(err, claims.ErrAlreadyDecided):
		jsonError(w, http.StatusConflict, "claim has already been decided")
	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totalReports, err := store.CountReports(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	totalItems, err := store.CountItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	pending, err := store.CountPendingClaims(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	recent, err := store.ListRecentClaims(r.Context(), h.DB, 10)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if recent == nil {
		recent = []model.ClaimRequest{}
	}

	jsonResponse(w, http.StatusOK, statsResponse{
		TotalReports:  totalReports,
		TotalItems:    totalItems,
		PendingClaims: pending,
		RecentClaims:  recent,
	})
}

// ListClaims handles GET /api/admin/claims.
func (h *AdminHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	list, err := store.ListClaims(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if list == nil {
		list = []model.ClaimRequest{}
	}
	jsonResponse(w, http.StatusOK, list)
}

// GetClaim handles GET /api/admin/claims/{id}.
func (h *AdminHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Decide handles POST /api/admin/claims/{id}/decision.
func (h *AdminHandler) Decide(w http.ResponseWriter, r *http.Request) {
	tokenClaims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req decideRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidActionType(req.ActionType) {
		jsonError(w, http.StatusBadRequest, "action_type must be 'approve' or 'reject'")
		return
	}

	result, err := h.Engine.Decide(r.Context(), tokenClaims.UserID, id, req.ActionType, req.Remarks)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

// VerifyHandover handles POST /api/admin/handover/verify (step 1: finder
// hands the item to the admin).
func (h *AdminHandler) VerifyHandover(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil || req.PickupCode == "" {
		jsonError(w, http.StatusBadRequest, "pickup_code is required")
		return
	}

	claim, err := h.Engine.VerifyHandover(r.Context(), req.PickupCode)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":  "item successfully received from finder",
		"claim_id": claim.ID,
	})
}

// VerifyCollection handles POST /api/admin/collection/verify (step 2: the
// claimant collects the item).
func (h *AdminHandler) VerifyCollection(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil || req.PickupCode == "" {
		jsonError(w, http.StatusBadRequest, "pickup_code is required")
		return
	}

	claim, err := h.Engine.VerifyCollection(r.Context(), req.PickupCode)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":  "item successfully handed over to claimer, case closed",
		"claim_id": claim.ID,
	})
}

// SecurityAnswers handles GET /api/admin/claims/{id}/security-answers,
// returning the reporter's question and answer alongside the claimant's
// answer for manual cross-checking during review.
func (h *AdminHandler) SecurityAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	reporterQ, err := store.GetReporterQuestion(r.Context(), h.DB, claim.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get reporter question")
		return
	}
	claimantA, err := store.GetClaimantAnswer(r.Context(), h.DB, claim.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claimant answer")
		return
	}

	resp := map[string]string{
		"reporter_question": "N/A",
		"reporter_answer":   "N/A",
		"claimant_answer":   "N/A",
	}
	if reporterQ != nil {
		resp["reporter_question"] = reporterQ.QuestionText
		resp["reporter_answer"] = reporterQ.Answer
	}
	if claimantA != nil {
		resp["claimant_answer"] = claimantA.Answer
	}

	jsonResponse(w, http.StatusOK, resp)
}

type itemStatusRequest struct {
	Status string `json:"status"`
}

// UpdateItemStatus handles PUT /api/admin/items/{id}/status, used to
// archive stale listings or restore an archived one.
func (h *AdminHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidItemStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "status must be 'active', 'resolved', or 'archived'")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.UpdateItemStatus(r.Context(), h.DB, id, req.Status); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	item, err = store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Actions handles GET /api/admin/actions (the audit log).
func (h *AdminHandler) Actions(w http.ResponseWriter, r *http.Request) {
	actions, err := store.ListAdminActions(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list actions")
		return
	}
	if actions == nil {
		actions = []model.AdminAction{}
	}
	jsonResponse(w, http.StatusOK, actions)
}
