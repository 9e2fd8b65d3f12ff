package service

import (
	"fmt"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

type TagService struct {
	repo     repository.TagRepository
	goalRepo repository.GoalRepository
}

func NewTagService(repo repository.TagRepository, goalRepo repository.GoalRepository) *TagService {
	return &TagService{
		repo:     repo,
		goalRepo: goalRepo,
	}
}

func (s *TagService) Create(name, color string) (*model.Tag, error) {
	if color == "" {
		color = model.DefaultColor
	}

	tag := &model.Tag{Name: name, Color: color}
	err := s.repo.Create(tag)
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *TagService) Tag(id int64) (*model.Tag, error) {
	return s.repo.ByID(id)
}

// Tags lists every tag with the number of goals carrying it.
func (s *TagService) Tags() ([]*model.Tag, error) {
	return s.repo.Tags()
}

func (s *TagService) Update(id int64, patch model.TagPatch) (*model.Tag, error) {
	err := s.repo.Update(id, patch)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(id)
}

// Delete removes a tag. Its goal associations go with it.
func (s *TagService) Delete(id int64) error {
	return s.repo.Delete(id)
}

// AddToGoal tags a live goal.
func (s *TagService) AddToGoal(goalID, tagID int64) error {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return err
	}

	_, err = s.repo.ByID(tagID)
	if err != nil {
		return err
	}

	err = s.repo.AddToGoal(goalID, tagID)
	if err != nil {
		return fmt.Errorf("failed to tag goal: %w", err)
	}
	return nil
}

func (s *TagService) RemoveFromGoal(goalID, tagID int64) error {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return err
	}

	return s.repo.RemoveFromGoal(goalID, tagID)
}
