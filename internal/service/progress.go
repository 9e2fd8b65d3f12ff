package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

var ErrMoveTargetNotFound = apperr.NotFound("target goal not found or not accepting progress")

// ProgressService is the ledger of progress entries. A goal's progress is
// always the sum of its entries' deltas and is never stored.
type ProgressService struct {
	repo             repository.ProgressEntryRepository
	goalRepo         repository.GoalRepository
	progressTypeRepo repository.ProgressTypeRepository
	imageRepo        repository.ImageRepository
	milestones       *MilestoneService
	now              func() time.Time
}

func NewProgressService(
	repo repository.ProgressEntryRepository,
	goalRepo repository.GoalRepository,
	progressTypeRepo repository.ProgressTypeRepository,
	imageRepo repository.ImageRepository,
	milestones *MilestoneService,
) *ProgressService {
	return &ProgressService{
		repo:             repo,
		goalRepo:         goalRepo,
		progressTypeRepo: progressTypeRepo,
		imageRepo:        imageRepo,
		milestones:       milestones,
		now:              utcNow,
	}
}

// Append records a new entry on a live goal and returns it together with any
// milestones it achieved.
func (s *ProgressService) Append(goalID int64, in model.NewProgressEntry) (*model.ProgressEntry, []*model.Milestone, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, nil, err
	}

	err = s.checkProgressType(in.ProgressTypeID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	achievedOn := now
	if in.DateAchieved != nil {
		achievedOn = in.DateAchieved.UTC()
	}

	entry := &model.ProgressEntry{
		GoalID:         goalID,
		ProgressTypeID: in.ProgressTypeID,
		Title:          in.Title,
		Notes:          in.Notes,
		ProgressDelta:  in.Delta,
		DateAchieved:   &achievedOn,
		CreatedAt:      now,
	}

	err = s.repo.Create(entry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	s.touch(goalID, now)

	achieved, err := s.milestones.afterLedgerChange(goalID)
	if err != nil {
		return nil, nil, err
	}

	return entry, achieved, nil
}

// Aggregate recomputes a live goal's progress from its entries.
func (s *ProgressService) Aggregate(goalID int64) (int, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return 0, err
	}

	return s.repo.SumDeltas(goalID)
}

// Entries returns a live goal's entries newest first with their images.
func (s *ProgressService) Entries(goalID int64) ([]*model.ProgressEntry, error) {
	_, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Entries(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress entries: %w", err)
	}

	err = s.attachImages(entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *ProgressService) Entry(id int64) (*model.ProgressEntry, error) {
	entry, err := liveEntry(s.repo, s.goalRepo, id)
	if err != nil {
		return nil, err
	}

	entry.Images, err = s.imageRepo.Images(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	return entry, nil
}

func (s *ProgressService) Update(id int64, patch model.ProgressEntryPatch) (*model.ProgressEntry, []*model.Milestone, error) {
	_, err := liveEntry(s.repo, s.goalRepo, id)
	if err != nil {
		return nil, nil, err
	}

	if v, ok := patch.ProgressTypeID.Get(); ok {
		err := s.checkProgressType(v)
		if err != nil {
			return nil, nil, err
		}
	}
	if v, ok := patch.DateAchieved.Get(); ok && v != nil {
		utc := v.UTC()
		patch.DateAchieved = model.Some(&utc)
	}

	err = s.repo.Update(id, patch)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.Entry(id)
	if err != nil {
		return nil, nil, err
	}

	s.touch(entry.GoalID, s.now())

	achieved, err := s.milestones.afterLedgerChange(entry.GoalID)
	if err != nil {
		return nil, nil, err
	}

	return entry, achieved, nil
}

// Move reassigns an entry of a live goal to another goal. The target must be
// live and neither archived nor completed. The reassignment is one statement;
// the two timestamp refreshes that follow are independent of it. Both goals
// are re-evaluated since moving a negative delta away raises the source.
func (s *ProgressService) Move(id, targetGoalID int64) (*model.ProgressEntry, []*model.Milestone, error) {
	entry, err := liveEntry(s.repo, s.goalRepo, id)
	if err != nil {
		return nil, nil, err
	}

	target, err := s.goalRepo.ByID(targetGoalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, nil, ErrMoveTargetNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !target.AcceptsEntries() {
		return nil, nil, ErrMoveTargetNotFound
	}

	sourceGoalID := entry.GoalID
	err = s.repo.Move(id, targetGoalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to move progress entry: %w", err)
	}

	now := s.now()
	s.touch(sourceGoalID, now)
	s.touch(targetGoalID, now)

	entry.GoalID = targetGoalID

	achieved, err := s.milestones.afterLedgerChange(sourceGoalID)
	if err != nil {
		return nil, nil, err
	}
	if sourceGoalID != targetGoalID {
		targetAchieved, err := s.milestones.afterLedgerChange(targetGoalID)
		if err != nil {
			return nil, nil, err
		}
		achieved = append(achieved, targetAchieved...)
	}

	return entry, achieved, nil
}

// Delete removes an entry of a live goal and its images.
func (s *ProgressService) Delete(id int64) ([]*model.Milestone, error) {
	entry, err := liveEntry(s.repo, s.goalRepo, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Delete(id)
	if err != nil {
		return nil, err
	}

	s.touch(entry.GoalID, s.now())

	// Removing a negative delta can raise the aggregate.
	return s.milestones.afterLedgerChange(entry.GoalID)
}

func (s *ProgressService) checkProgressType(id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.progressTypeRepo.ByID(*id)
	return err
}

func (s *ProgressService) attachImages(entries []*model.ProgressEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	images, err := s.imageRepo.ImagesByEntries(ids)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	byEntry := make(map[int64][]*model.Image, len(entries))
	for _, img := range images {
		byEntry[img.ProgressEntryID] = append(byEntry[img.ProgressEntryID], img)
	}
	for _, e := range entries {
		e.Images = byEntry[e.ID]
	}
	return nil
}

// touch refreshes a goal's updated_at. The entry change has already been
// committed, so a failure here is logged rather than returned.
func (s *ProgressService) touch(goalID int64, now time.Time) {
	err := s.goalRepo.Touch(goalID, now)
	if err != nil {
		slog.Error("failed to refresh goal timestamp", "error", err, "goal_id", goalID)
	}
}
