package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/reclaimhq/reclaim/internal/imaging"
	"github.com/reclaimhq/reclaim/internal/storage"
)

// ImagesHandler handles report photo uploads.
type ImagesHandler struct {
	Store *storage.Store
}

// Upload handles POST /api/images. The photo is validated and downscaled
// before storage; the response carries the URL to put in a report's image
// field.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Prepare(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	url := h.Store.UploadImage(r.Context(), photoFileName(header.Filename, photo), photo.MIME, photo.Data)
	if url == "" {
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"url": url})
}

// photoFileName names the stored file after the uploaded one, but with the
// extension of the prepared photo, which may have been re-encoded to a
// different format than the client sent.
func photoFileName(original string, photo *imaging.Photo) string {
	base := strings.TrimSuffix(path.Base(original), path.Ext(original))
	if base == "" || base == "." || base == "/" {
		base = "photo"
	}
	return base + photo.Ext()
}
