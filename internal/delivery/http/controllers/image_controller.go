package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// maxImageUploadBytes caps event image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// ImageUploadResponse is the data payload for POST /images.
type ImageUploadResponse struct {
	URL string `json:"url"`
}

type ImageController struct {
	Logger *slog.Logger
	Store  domain.ImageStore
}

func NewImageController(logger *slog.Logger, store domain.ImageStore) *ImageController {
	return &ImageController{
		Logger: logger,
		Store:  store,
	}
}

// Upload godoc
// @Summary Upload an image
// @Description Accepts a multipart form with a "file" part and stores it in the image store. Returns the public URL to reference from event, section, and item image fields.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file (jpeg, png, gif, or webp; max 5 MiB)"
// @Success 201 {object} helpers.APIResponse "data contains the image URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images [post]
func (c *ImageController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := c.Store.Upload(r.Context(), file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported image type")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not upload image, please try again")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ImageUploadResponse{URL: url})
}
