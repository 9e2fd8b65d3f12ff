package service

import (
	"time"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

type ProgressTypeService struct {
	repo      repository.ProgressTypeRepository
	entryRepo repository.ProgressEntryRepository
	now       func() time.Time
}

func NewProgressTypeService(repo repository.ProgressTypeRepository, entryRepo repository.ProgressEntryRepository) *ProgressTypeService {
	return &ProgressTypeService{
		repo:      repo,
		entryRepo: entryRepo,
		now:       utcNow,
	}
}

func (s *ProgressTypeService) Create(name string, description *string, emoji string) (*model.ProgressType, error) {
	if emoji == "" {
		emoji = model.DefaultProgressEmoji
	}

	progressType := &model.ProgressType{
		Name:        name,
		Description: description,
		Emoji:       emoji,
		CreatedAt:   s.now(),
	}

	err := s.repo.Create(progressType)
	if err != nil {
		return nil, err
	}

	return progressType, nil
}

func (s *ProgressTypeService) ProgressType(id int64) (*model.ProgressType, error) {
	return s.repo.ByID(id)
}

func (s *ProgressTypeService) ProgressTypes() ([]*model.ProgressType, error) {
	return s.repo.ProgressTypes()
}

func (s *ProgressTypeService) Update(id int64, patch model.ProgressTypePatch) (*model.ProgressType, error) {
	err := s.repo.Update(id, patch)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(id)
}

// Delete removes a progress type no entry references.
func (s *ProgressTypeService) Delete(id int64) error {
	_, err := s.repo.ByID(id)
	if err != nil {
		return err
	}

	count, err := s.entryRepo.CountByProgressType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperr.InUseError{Resource: "progress type", Dependents: "progress update(s)", Count: count}
	}

	return s.repo.Delete(id)
}
