package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/sahanac12/lost-found/internal/imaging"
	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/storage"
	"github.com/sahanac12/lost-found/internal/store"
)

// maxUploadSize caps report submissions, photo included.
const maxUploadSize = 5 << 20

// ReportsHandler handles lost/found report endpoints.
type ReportsHandler struct {
	DB    *sql.DB
	Files *storage.Store
}

// Create handles POST /api/reports (multipart form). It creates the item,
// the report, and the reporter's security question together; an optional
// photo is processed and stored first and cleaned up if the insert fails.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	tokenClaims := GetClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	nr := store.NewReport{
		ReportType:   r.FormValue("report_type"),
		Remarks:      r.FormValue("remarks"),
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Category:     r.FormValue("category"),
		Location:     r.FormValue("location"),
		Date:         r.FormValue("date"),
		QuestionText: r.FormValue("security_question"),
		Answer:       r.FormValue("security_answer"),
	}

	if !model.ValidReportType(nr.ReportType) {
		jsonError(w, http.StatusBadRequest, "report_type must be 'lost' or 'found'")
		return
	}
	if nr.Title == "" || nr.Description == "" || nr.Category == "" || nr.Location == "" || nr.Date == "" {
		jsonError(w, http.StatusBadRequest, "title, description, category, location, and date are required")
		return
	}
	if nr.QuestionText == "" || nr.Answer == "" {
		jsonError(w, http.StatusBadRequest, "security question and answer are required")
		return
	}

	// Optional photo.
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		processed, err := imaging.Process(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}

		name, err := h.Files.Save(processed.Data, header.Filename+".jpg")
		if err != nil {
			slog.Error("failed to store photo", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to store photo")
			return
		}
		nr.PhotoName = name
	}

	report, err := store.CreateReport(r.Context(), h.DB, tokenClaims.UserID, nr)
	if err != nil {
		if nr.PhotoName != "" {
			if rmErr := h.Files.Remove(nr.PhotoName); rmErr != nil {
				slog.Error("failed to clean up photo", "name", nr.PhotoName, "error", rmErr)
			}
		}
		jsonError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	slog.Info("report created", "user", tokenClaims.Email,
		"type", report.ReportType, "item", report.ItemID)
	jsonResponse(w, http.StatusCreated, report)
}

// ListMine handles GET /api/reports/mine.
func (h *ReportsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	tokenClaims := GetClaims(r.Context())

	reports, err := store.ListReportsByUser(r.Context(), h.DB, tokenClaims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// ListAll handles GET /api/admin/reports.
func (h *ReportsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reports, err := store.ListReports(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	jsonResponse(w, http.StatusOK, reports)
}
