package service

import (
	"fmt"
	"time"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

// GoalService manages the goal lifecycle: live, trashed (soft deleted) and
// permanently removed.
type GoalService struct {
	repo         repository.GoalRepository
	goalTypeRepo repository.GoalTypeRepository
	tagRepo      repository.TagRepository
	milestones   *MilestoneService
	now          func() time.Time
}

func NewGoalService(
	repo repository.GoalRepository,
	goalTypeRepo repository.GoalTypeRepository,
	tagRepo repository.TagRepository,
	milestones *MilestoneService,
) *GoalService {
	return &GoalService{
		repo:         repo,
		goalTypeRepo: goalTypeRepo,
		tagRepo:      tagRepo,
		milestones:   milestones,
		now:          utcNow,
	}
}

func (s *GoalService) Create(in model.NewGoal) (*model.GoalDetail, error) {
	err := s.checkGoalType(in.GoalTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := &model.Goal{
		GoalTypeID:  in.GoalTypeID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.GoalStatusActive,
		TargetDate:  utcPtr(in.TargetDate),
		Quarter:     in.Quarter,
		Year:        in.Year,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return s.Goal(goal.ID)
}

// Goal returns a live goal with its computed progress, tags and milestones.
func (s *GoalService) Goal(id int64) (*model.GoalDetail, error) {
	summary, err := s.repo.Summary(id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.GoalTags(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal tags: %w", err)
	}

	milestones, err := s.milestones.repo.Milestones(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones: %w", err)
	}

	return &model.GoalDetail{
		GoalSummary: *summary,
		Tags:        tags,
		Milestones:  milestones,
	}, nil
}

// Goals lists live goals, optionally filtered by status.
func (s *GoalService) Goals(status, sortBy string) ([]*model.GoalSummary, error) {
	return s.repo.Summaries(status, sortBy)
}

// Trash lists soft-deleted goals, most recently deleted first.
func (s *GoalService) Trash() ([]*model.GoalSummary, error) {
	return s.repo.TrashedSummaries()
}

func (s *GoalService) Stats() (*model.GoalStats, error) {
	return s.repo.Stats()
}

// Update applies a partial update in one statement. A progress value in the
// patch is not stored; it is evaluated against the goal's milestones and the
// ones it achieves are returned.
func (s *GoalService) Update(id int64, patch model.GoalPatch) (*model.GoalDetail, []*model.Milestone, error) {
	if v, ok := patch.GoalTypeID.Get(); ok {
		err := s.checkGoalType(v)
		if err != nil {
			return nil, nil, err
		}
	}
	if v, ok := patch.TargetDate.Get(); ok {
		patch.TargetDate = model.Some(utcPtr(v))
	}

	err := s.repo.Update(id, patch, s.now())
	if err != nil {
		return nil, nil, err
	}

	achieved := []*model.Milestone{}
	if progress, ok := patch.Progress.Get(); ok {
		achieved, err = s.milestones.evaluate(id, progress)
		if err != nil {
			return nil, nil, err
		}
	}

	goal, err := s.Goal(id)
	if err != nil {
		return nil, nil, err
	}

	return goal, achieved, nil
}

// Delete moves a live goal to the trash.
func (s *GoalService) Delete(id int64) error {
	return s.repo.SoftDelete(id, s.now())
}

// Restore brings a trashed goal back. Only updated_at moves.
func (s *GoalService) Restore(id int64) error {
	return s.repo.Restore(id, s.now())
}

// PermanentDelete removes a trashed goal with everything it owns. Live goals
// must be trashed first.
func (s *GoalService) PermanentDelete(id int64) error {
	return s.repo.Delete(id)
}

func (s *GoalService) Archive(id int64) error {
	return s.repo.Archive(id, s.now())
}

func (s *GoalService) Unarchive(id int64) error {
	return s.repo.Unarchive(id, s.now())
}

func (s *GoalService) checkGoalType(id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.goalTypeRepo.ByID(*id)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
