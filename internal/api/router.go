package api

import (
	"database/sql"
	"net/http"

	"github.com/sahanac12/lost-found/internal/claims"
	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/storage"
)

// NewRouter builds the HTTP routing table for the whole API.
func NewRouter(db *sql.DB, jwtSecret string, engine *claims.Engine, files *storage.Store) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db, Files: files}
	reportsHandler := &ReportsHandler{DB: db, Files: files}
	claimsHandler := &ClaimsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db, Engine: engine}

	authed := AuthMiddleware(jwtSecret, db)
	userOnly := func(h http.HandlerFunc) http.Handler {
		return authed(RequireRole(model.RoleUser)(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authed(RequireRole(model.RoleAdmin)(h))
	}

	// Public endpoints.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Any authenticated account.
	mux.Handle("POST /api/auth/logout", authed(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authed(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/items", authed(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", authed(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("GET /api/items/{id}/photo", authed(http.HandlerFunc(itemsHandler.Photo)))

	// Regular users.
	mux.Handle("POST /api/reports", userOnly(reportsHandler.Create))
	mux.Handle("GET /api/reports/mine", userOnly(reportsHandler.ListMine))
	mux.Handle("POST /api/items/{id}/claims", userOnly(claimsHandler.Create))
	mux.Handle("GET /api/claims/mine", userOnly(claimsHandler.ListMine))

	// Admins.
	mux.Handle("GET /api/admin/stats", adminOnly(adminHandler.Stats))
	mux.Handle("GET /api/admin/reports", adminOnly(reportsHandler.ListAll))
	mux.Handle("GET /api/admin/claims", adminOnly(adminHandler.ListClaims))
	mux.Handle("GET /api/admin/claims/{id}", adminOnly(adminHandler.GetClaim))
	mux.Handle("GET /api/admin/claims/{id}/security-answers", adminOnly(adminHandler.SecurityAnswers))
	mux.Handle("POST /api/admin/claims/{id}/decision", adminOnly(adminHandler.Decide))
	mux.Handle("POST /api/admin/handover/verify", adminOnly(adminHandler.VerifyHandover))
	mux.Handle("POST /api/admin/collection/verify", adminOnly(adminHandler.VerifyCollection))
	mux.Handle("PUT /api/admin/items/{id}/status", adminOnly(adminHandler.UpdateItemStatus))
	mux.Handle("GET /api/admin/actions", adminOnly(adminHandler.Actions))

	return LoggingMiddleware(mux)
}
