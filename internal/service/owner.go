package service

import (
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

// liveEntry loads an entry whose goal is outside the trash. Entries of a
// trashed goal report ErrGoalNotFound until the goal is restored.
func liveEntry(entryRepo repository.ProgressEntryRepository, goalRepo repository.GoalRepository, id int64) (*model.ProgressEntry, error) {
	entry, err := entryRepo.ByID(id)
	if err != nil {
		return nil, err
	}

	_, err = goalRepo.ByID(entry.GoalID)
	if err != nil {
		return nil, err
	}

	return entry, nil
}
