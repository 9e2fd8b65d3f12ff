package handler

import (
	"net/http"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/validation"
)

// TaxonomyHandler serves the lookup resources goals and entries are
// classified with: tags, goal types and progress types.
type TaxonomyHandler struct {
	tagService          *service.TagService
	goalTypeService     *service.GoalTypeService
	progressTypeService *service.ProgressTypeService
}

func NewTaxonomyHandler(
	tagService *service.TagService,
	goalTypeService *service.GoalTypeService,
	progressTypeService *service.ProgressTypeService,
) *TaxonomyHandler {
	return &TaxonomyHandler{
		tagService:          tagService,
		goalTypeService:     goalTypeService,
		progressTypeService: progressTypeService,
	}
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type tagPatchRequest struct {
	Name  model.Optional[string] `json:"name"`
	Color model.Optional[string] `json:"color"`
}

type goalTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
}

type goalTypePatchRequest struct {
	Name        model.Optional[string]  `json:"name"`
	Description model.Optional[*string] `json:"description"`
	Color       model.Optional[string]  `json:"color"`
	Icon        model.Optional[string]  `json:"icon"`
}

type progressTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Emoji       string  `json:"emoji"`
}

type progressTypePatchRequest struct {
	Name        model.Optional[string]  `json:"name"`
	Description model.Optional[*string] `json:"description"`
	Emoji       model.Optional[string]  `json:"emoji"`
}

func validateNamePatch(name, color model.Optional[string]) error {
	if v, ok := name.Get(); ok {
		err := validation.ValidateName(v)
		if err != nil {
			return err
		}
	}
	if v, ok := color.Get(); ok {
		return validation.ValidateColor(v)
	}
	return nil
}

// Tags

func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.Tags()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TaxonomyHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.tagService.Tag(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = firstError(validation.ValidateName(req.Name), validation.ValidateColor(req.Color))
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	tag, err := h.tagService.Create(req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req tagPatchRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = validateNamePatch(req.Name, req.Color)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	tag, err := h.tagService.Update(id, model.TagPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.tagService.Delete)
}

// Goal types

func (h *TaxonomyHandler) ListGoalTypes(w http.ResponseWriter, r *http.Request) {
	goalTypes, err := h.goalTypeService.GoalTypes()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalTypes)
}

func (h *TaxonomyHandler) GetGoalType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	goalType, err := h.goalTypeService.GoalType(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalType)
}

func (h *TaxonomyHandler) CreateGoalType(w http.ResponseWriter, r *http.Request) {
	var req goalTypeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = firstError(validation.ValidateName(req.Name), validation.ValidateColor(req.Color))
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	goalType, err := h.goalTypeService.Create(req.Name, req.Description, req.Color, req.Icon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goalType)
}

func (h *TaxonomyHandler) UpdateGoalType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req goalTypePatchRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = validateNamePatch(req.Name, req.Color)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	goalType, err := h.goalTypeService.Update(id, model.GoalTypePatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalType)
}

func (h *TaxonomyHandler) DeleteGoalType(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.goalTypeService.Delete)
}

// Progress types

func (h *TaxonomyHandler) ListProgressTypes(w http.ResponseWriter, r *http.Request) {
	progressTypes, err := h.progressTypeService.ProgressTypes()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressTypes)
}

func (h *TaxonomyHandler) GetProgressType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	progressType, err := h.progressTypeService.ProgressType(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressType)
}

func (h *TaxonomyHandler) CreateProgressType(w http.ResponseWriter, r *http.Request) {
	var req progressTypeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = validation.ValidateName(req.Name)
	if err != nil {
		writeError(w, r, invalid(err))
		return
	}

	progressType, err := h.progressTypeService.Create(req.Name, req.Description, req.Emoji)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, progressType)
}

func (h *TaxonomyHandler) UpdateProgressType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req progressTypePatchRequest
	err = decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if v, ok := req.Name.Get(); ok {
		err = validation.ValidateName(v)
		if err != nil {
			writeError(w, r, invalid(err))
			return
		}
	}

	progressType, err := h.progressTypeService.Update(id, model.ProgressTypePatch{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressType)
}

func (h *TaxonomyHandler) DeleteProgressType(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.progressTypeService.Delete)
}

func (h *TaxonomyHandler) delete(w http.ResponseWriter, r *http.Request, remove func(int64) error) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = remove(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}
