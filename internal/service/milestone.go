package service

import (
	"fmt"
	"time"

	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

type MilestoneService struct {
	repo         repository.MilestoneRepository
	goalRepo     repository.GoalRepository
	entryRepo    repository.ProgressEntryRepository
	followLedger bool
	now          func() time.Time
}

// NewMilestoneService creates the milestone evaluator. With followLedger set,
// every ledger change re-evaluates against the recomputed aggregate; without
// it only direct progress writes evaluate.
func NewMilestoneService(
	repo repository.MilestoneRepository,
	goalRepo repository.GoalRepository,
	entryRepo repository.ProgressEntryRepository,
	followLedger bool,
) *MilestoneService {
	return &MilestoneService{
		repo:         repo,
		goalRepo:     goalRepo,
		entryRepo:    entryRepo,
		followLedger: followLedger,
		now:          utcNow,
	}
}

// Evaluate marks every pending milestone of a live goal whose threshold is at
// or below progress as achieved, all with the same timestamp. Only the
// milestones that changed by this call are returned.
func (s *MilestoneService) Evaluate(goalID int64, progress int) ([]*model.Milestone, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	return s.evaluate(goalID, progress)
}

func (s *MilestoneService) evaluate(goalID int64, progress int) ([]*model.Milestone, error) {
	pending, err := s.repo.Pending(goalID, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending milestones: %w", err)
	}

	achieved := []*model.Milestone{}
	if len(pending) == 0 {
		return achieved, nil
	}

	at := s.now()
	for _, m := range pending {
		changed, err := s.repo.MarkAchieved(m.ID, at)
		if err != nil {
			return nil, fmt.Errorf("failed to mark milestone achieved: %w", err)
		}
		// Lost a race with a concurrent evaluation; that call reports it.
		if !changed {
			continue
		}
		m.Achieved = true
		m.AchievedAt = &at
		achieved = append(achieved, m)
	}

	return achieved, nil
}

// afterLedgerChange re-evaluates a goal against its summed deltas when the
// service follows the ledger.
func (s *MilestoneService) afterLedgerChange(goalID int64) ([]*model.Milestone, error) {
	if !s.followLedger {
		return []*model.Milestone{}, nil
	}

	progress, err := s.entryRepo.SumDeltas(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}

	return s.evaluate(goalID, progress)
}

// Create adds a milestone to a live goal. A threshold the goal has already
// reached is achieved right away when following the ledger.
func (s *MilestoneService) Create(goalID int64, title string, threshold int) (*model.Milestone, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	milestone := &model.Milestone{
		GoalID:    goalID,
		Title:     title,
		Threshold: threshold,
		CreatedAt: s.now(),
	}

	err = s.repo.Create(milestone)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	achieved, err := s.afterLedgerChange(goalID)
	if err != nil {
		return nil, err
	}
	for _, m := range achieved {
		if m.ID == milestone.ID {
			return m, nil
		}
	}

	return milestone, nil
}

func (s *MilestoneService) Milestones(goalID int64) ([]*model.Milestone, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	return s.repo.Milestones(goalID)
}

// Delete removes a milestone of a live goal.
func (s *MilestoneService) Delete(id int64) error {
	milestone, err := s.repo.ByID(id)
	if err != nil {
		return err
	}

	_, err = s.goalRepo.ByID(milestone.GoalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(id)
}
