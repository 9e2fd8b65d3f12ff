package handler

import (
	"net/http"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
	tagService  *service.TagService
}

func NewGoalHandler(goalService *service.GoalService, tagService *service.TagService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		tagService:  tagService,
	}
}

type createGoalRequest struct {
	GoalTypeID  *int64  `json:"goal_type_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	TargetDate  *date   `json:"target_date"`
	Quarter     *string `json:"quarter"`
	Year        *int    `json:"year"`
}

type updateGoalRequest struct {
	GoalTypeID  model.Optional[*int64]  `json:"goal_type_id"`
	Title       model.Optional[string]  `json:"title"`
	Description model.Optional[*string] `json:"description"`
	Status      model.Optional[string]  `json:"status"`
	Progress    model.Optional[int]     `json:"progress"`
	TargetDate  model.Optional[*date]   `json:"target_date"`
	Quarter     model.Optional[*string] `json:"quarter"`
	Year        model.Optional[*int]    `json:"year"`
}

type goalUpdateResponse struct {
	Goal               *model.GoalDetail  `json:"goal"`
	AchievedMilestones []*model.Milestone `json:"achieved_milestones"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" {
		err := validation.ValidateStatus(status)
		if err != nil {
			writeError(w, r, invalid(err))
			return
		}
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = repository.GoalSortRecent
	}

	goals, err := h.goalService.Goals(status, sortBy)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Trash(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Trash()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.goalService.Stats()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Goal(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = firstError(
		validation.ValidateTitle(req.Title),
		validation.ValidateQuarter(req.Quarter),
		validation.ValidateYear(req.Year),
	)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	goal, err := h.goalService.Create(model.NewGoal{
		GoalTypeID:  req.GoalTypeID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate.ptr(),
		Quarter:     req.Quarter,
		Year:        req.Year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateGoalRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = req.validate()
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	goal, achieved, err := h.goalService.Update(id, model.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		GoalTypeID:  req.GoalTypeID,
		Status:      req.Status,
		Progress:    req.Progress,
		TargetDate:  optionalDate(req.TargetDate),
		Quarter:     req.Quarter,
		Year:        req.Year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goalUpdateResponse{Goal: goal, AchievedMilestones: achieved})
}

func (req *updateGoalRequest) validate() error {
	if v, ok := req.Title.Get(); ok {
		err := validation.ValidateTitle(v)
		if err != nil {
			return err
		}
	}
	if v, ok := req.Status.Get(); ok {
		err := validation.ValidateStatus(v)
		if err != nil {
			return err
		}
	}
	if v, ok := req.Progress.Get(); ok {
		err := validation.ValidatePercent("progress", v)
		if err != nil {
			return err
		}
	}
	return firstError(
		validation.ValidateQuarter(req.Quarter.Value),
		validation.ValidateYear(req.Year.Value),
	)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.goalService.Delete, false)
}

func (h *GoalHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.goalService.Restore, true)
}

func (h *GoalHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.goalService.PermanentDelete, false)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.goalService.Archive, true)
}

func (h *GoalHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.goalService.Unarchive, true)
}

// lifecycle runs a status transition and answers with the goal afterwards,
// or with no content when the goal is no longer live.
func (h *GoalHandler) lifecycle(w http.ResponseWriter, r *http.Request, transition func(int64) error, respondWithGoal bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = transition(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !respondWithGoal {
		noContent(w)
		return
	}

	goal, err := h.goalService.Goal(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	h.tagLink(w, r, h.tagService.AddToGoal)
}

func (h *GoalHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	h.tagLink(w, r, h.tagService.RemoveFromGoal)
}

func (h *GoalHandler) tagLink(w http.ResponseWriter, r *http.Request, link func(goalID, tagID int64) error) {
	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tagID, err := pathID(r, "tagID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = link(goalID, tagID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Goal(goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}
