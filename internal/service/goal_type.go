package service

import (
	"time"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

type GoalTypeService struct {
	repo     repository.GoalTypeRepository
	goalRepo repository.GoalRepository
	now      func() time.Time
}

func NewGoalTypeService(repo repository.GoalTypeRepository, goalRepo repository.GoalRepository) *GoalTypeService {
	return &GoalTypeService{
		repo:     repo,
		goalRepo: goalRepo,
		now:      utcNow,
	}
}

func (s *GoalTypeService) Create(name string, description *string, color, icon string) (*model.GoalType, error) {
	if color == "" {
		color = model.DefaultColor
	}
	if icon == "" {
		icon = model.DefaultGoalIcon
	}

	goalType := &model.GoalType{
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
		CreatedAt:   s.now(),
	}

	err := s.repo.Create(goalType)
	if err != nil {
		return nil, err
	}

	return goalType, nil
}

func (s *GoalTypeService) GoalType(id int64) (*model.GoalType, error) {
	return s.repo.ByID(id)
}

func (s *GoalTypeService) GoalTypes() ([]*model.GoalType, error) {
	return s.repo.GoalTypes()
}

func (s *GoalTypeService) Update(id int64, patch model.GoalTypePatch) (*model.GoalType, error) {
	err := s.repo.Update(id, patch)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(id)
}

// Delete removes a goal type that no goal references, trashed goals included.
func (s *GoalTypeService) Delete(id int64) error {
	_, err := s.repo.ByID(id)
	if err != nil {
		return err
	}

	count, err := s.goalRepo.CountByGoalType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperr.InUseError{Resource: "goal type", Dependents: "goal(s)", Count: count}
	}

	return s.repo.Delete(id)
}
