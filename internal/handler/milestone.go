package handler

import (
	"net/http"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/validation"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

type createMilestoneRequest struct {
	Title     string `json:"title"`
	Threshold int    `json:"threshold"`
}

type evaluateRequest struct {
	Progress int `json:"progress"`
}

type evaluateResponse struct {
	Progress           int                `json:"progress"`
	AchievedMilestones []*model.Milestone `json:"achieved_milestones"`
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	milestones, err := h.milestoneService.Milestones(goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, milestones)
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createMilestoneRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = firstError(
		validation.ValidateTitle(req.Title),
		validation.ValidatePercent("threshold", req.Threshold),
	)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	milestone, err := h.milestoneService.Create(goalID, req.Title, req.Threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, milestone)
}

// Evaluate is the direct progress write: it checks milestones against the
// given value without storing it.
func (h *MilestoneHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req evaluateRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = validation.ValidatePercent("progress", req.Progress)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	achieved, err := h.milestoneService.Evaluate(goalID, req.Progress)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{Progress: req.Progress, AchievedMilestones: achieved})
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.milestoneService.Delete(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	noContent(w)
}
