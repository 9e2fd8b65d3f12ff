package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/export"
	"github.com/templui/goaltrack/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

func goalIDs(r *http.Request) ([]int64, error) {
	var req goalIDsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		return nil, err
	}
	if len(req.GoalIDs) == 0 {
		return nil, apperr.Invalid("goal_ids must not be empty")
	}
	return req.GoalIDs, nil
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *ExportHandler) Markdown(w http.ResponseWriter, r *http.Request) {
	ids, err := goalIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := h.exportService.Markdown(ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	attachment(w, "text/markdown; charset=utf-8", export.Filename(time.Now(), ".md"))
	_, _ = w.Write([]byte(doc))
}

// Archive builds the zip in memory so a failure can still be reported with
// a proper status.
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ids, err := goalIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = h.exportService.WriteArchive(&buf, ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	attachment(w, "application/zip", export.Filename(time.Now(), ".zip"))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (h *ExportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ids, err := goalIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	html, err := h.exportService.PreviewHTML(ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (h *ExportHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ids, err := goalIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	published, err := h.exportService.Publish(ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, published)
}
