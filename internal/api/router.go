package api

import (
	"net/http"

	"github.com/reclaimhq/reclaim/internal/storage"
)

// NewRouter creates the API router with all endpoints registered.
//
// Reads and report submission are public, matching the remote table's access
// policy. Editing and deleting a report require a session whose email matches
// the report's reporter.
func NewRouter(store *storage.Store, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Store: store, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{Store: store}
	imagesHandler := &ImagesHandler{Store: store}

	authMW := AuthMiddleware(jwtSecret)

	// Accounts.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Reports: public read and submit.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)

	// Reporter-only mutations.
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Report photos.
	mux.HandleFunc("POST /api/images", imagesHandler.Upload)

	return mux
}
