package handler

import (
	"net/http"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/validation"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

type createEntryRequest struct {
	Title          string  `json:"title"`
	Notes          *string `json:"notes"`
	ProgressDelta  int     `json:"progress_delta"`
	DateAchieved   *date   `json:"date_achieved"`
	ProgressTypeID *int64  `json:"progress_type_id"`
}

type updateEntryRequest struct {
	Title          model.Optional[string]  `json:"title"`
	Notes          model.Optional[*string] `json:"notes"`
	ProgressDelta  model.Optional[int]     `json:"progress_delta"`
	DateAchieved   model.Optional[*date]   `json:"date_achieved"`
	ProgressTypeID model.Optional[*int64]  `json:"progress_type_id"`
}

type moveEntryRequest struct {
	GoalID int64 `json:"goal_id"`
}

type entryResponse struct {
	Entry              *model.ProgressEntry `json:"entry"`
	AchievedMilestones []*model.Milestone   `json:"achieved_milestones"`
}

type aggregateResponse struct {
	GoalID   int64 `json:"goal_id"`
	Progress int   `json:"progress"`
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := h.progressService.Entries(goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *ProgressHandler) Create(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createEntryRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = firstError(
		validation.ValidateTitle(req.Title),
		validation.ValidateDelta(req.ProgressDelta),
	)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	entry, achieved, err := h.progressService.Append(goalID, model.NewProgressEntry{
		Title:          req.Title,
		Notes:          req.Notes,
		Delta:          req.ProgressDelta,
		DateAchieved:   req.DateAchieved.ptr(),
		ProgressTypeID: req.ProgressTypeID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryResponse{Entry: entry, AchievedMilestones: achieved})
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.progressService.Entry(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateEntryRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if v, ok := req.Title.Get(); ok {
		err = validation.ValidateTitle(v)
	}
	if v, ok := req.ProgressDelta.Get(); ok && err == nil {
		err = validation.ValidateDelta(v)
	}
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	entry, achieved, err := h.progressService.Update(id, model.ProgressEntryPatch{
		Title:          req.Title,
		Notes:          req.Notes,
		Delta:          req.ProgressDelta,
		DateAchieved:   optionalDate(req.DateAchieved),
		ProgressTypeID: req.ProgressTypeID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, AchievedMilestones: achieved})
}

func (h *ProgressHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req moveEntryRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, achieved, err := h.progressService.Move(id, req.GoalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, AchievedMilestones: achieved})
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = h.progressService.Delete(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	noContent(w)
}

func (h *ProgressHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	progress, err := h.progressService.Aggregate(goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, aggregateResponse{GoalID: goalID, Progress: progress})
}
