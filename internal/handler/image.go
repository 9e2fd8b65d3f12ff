package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/validation"
)

const maxImagesPerUpload = 10

type ImageHandler struct {
	imageService  *service.ImageService
	maxUploadSize int64
}

func NewImageHandler(imageService *service.ImageService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		imageService:  imageService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	images, err := h.imageService.Images(entryID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, images)
}

// Upload accepts multipart "images[]" files with optional "captions[]"
// values matched by position. The bracketless names work too.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize*maxImagesPerUpload+1<<20)
	err = r.ParseMultipartForm(32 << 20)
	if err != nil {
		writeError(w, r, apperr.Invalidf("invalid upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := append(r.MultipartForm.File["images[]"], r.MultipartForm.File["images"]...)
	if len(files) == 0 {
		writeError(w, r, apperr.Invalid("no images provided"))
		return
	}
	if len(files) > maxImagesPerUpload {
		writeError(w, r, apperr.Invalidf("at most %d images per upload", maxImagesPerUpload))
		return
	}
	captions := append(r.MultipartForm.Value["captions[]"], r.MultipartForm.Value["captions"]...)

	constraints := validation.ImageConstraints(h.maxUploadSize)
	uploads := make([]service.ImageUpload, 0, len(files))
	for i, header := range files {
		data, err := h.readUpload(header)
		if err != nil {
			writeError(w, r, err)
			return
		}

		err = validation.ValidateFile(header.Filename, data, constraints)
		if err != nil {
			writeError(w, r, apperr.Invalidf("%s: %v", header.Filename, err))
			return
		}

		upload := service.ImageUpload{Data: data}
		if i < len(captions) && captions[i] != "" {
			caption := captions[i]
			upload.Caption = &caption
		}
		uploads = append(uploads, upload)
	}

	refs, err := h.imageService.Attach(entryID, uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, refs)
}

func (h *ImageHandler) readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > h.maxUploadSize {
		return nil, apperr.Invalidf("%s: file too large: maximum size is %d MB", header.Filename, h.maxUploadSize/(1<<20))
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	variant := r.URL.Query().Get("variant")

	image, err := h.imageService.Image(filename, variant)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", image.MimeType)
	// Filenames are unique and payloads never change.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(image.Data)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.imageService.Remove(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	noContent(w)
}
