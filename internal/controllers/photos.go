package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"gamelogger/internal/storage/uploads"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type PhotoResponse struct {
	PhotoURI string `json:"photo_uri"`
}

type PhotoController struct {
	photos uploads.IPhotos
	log    *slog.Logger
}

func NewPhotoController(photos uploads.IPhotos, log *slog.Logger) *PhotoController {
	return &PhotoController{photos: photos, log: log}
}

// Upload accepts a multipart photo and answers with the URI to store in the
// diary entry's photo_uri field.
func (c *PhotoController) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.photos.Upload"

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		c.log.Error(ErrUploadPhoto.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrUploadPhoto.Error(), http.StatusInternalServerError)
		return
	}

	uri, err := c.photos.SavePhoto(data, filepath.Ext(header.Filename))
	if err != nil {
		c.log.Error(ErrUploadPhoto.Error(),
			slog.String("operation", op),
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		http.Error(w, ErrUploadPhoto.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, PhotoResponse{PhotoURI: uri})
}
