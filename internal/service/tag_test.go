package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

func TestTagLifecycle(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Tagged")

	health, err := f.tags.Create("health", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultColor, health.Color)

	_, err = f.tags.Create("health", "#000000")
	assert.ErrorIs(t, err, repository.ErrTagNameTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	require.NoError(t, f.tags.AddToGoal(goal.ID, health.ID))
	assert.ErrorIs(t, f.tags.AddToGoal(goal.ID, health.ID), repository.ErrGoalTagAlreadySet)
	assert.ErrorIs(t, f.tags.AddToGoal(goal.ID, 9999), repository.ErrTagNotFound)

	tag, err := f.tags.Tag(health.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tag.GoalCount)

	detail, err := f.goals.Goal(goal.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "health", detail.Tags[0].Name)

	renamed, err := f.tags.Update(health.ID, model.TagPatch{Name: model.Some("fitness")})
	require.NoError(t, err)
	assert.Equal(t, "fitness", renamed.Name)
	assert.Equal(t, model.DefaultColor, renamed.Color)

	require.NoError(t, f.tags.RemoveFromGoal(goal.ID, health.ID))
	assert.ErrorIs(t, f.tags.RemoveFromGoal(goal.ID, health.ID), repository.ErrGoalTagNotFound)

	require.NoError(t, f.tags.AddToGoal(goal.ID, health.ID))
	require.NoError(t, f.tags.Delete(health.ID))

	detail, err = f.goals.Goal(goal.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Tags)
}

func TestGoalTypeDeleteIsGuarded(t *testing.T) {
	f := newFixture(t)
	fitness, err := f.goalTypes.Create("Fitness", ptr("move more"), "#10b981", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGoalIcon, fitness.Icon)

	_, err = f.goalTypes.Create("Fitness", nil, "", "")
	assert.ErrorIs(t, err, repository.ErrGoalTypeNameTaken)

	var goals []int64
	for _, title := range []string{"Run", "Swim", "Lift"} {
		g, err := f.goals.Create(model.NewGoal{Title: title, GoalTypeID: &fitness.ID})
		require.NoError(t, err)
		goals = append(goals, g.ID)
	}

	listed, err := f.goalTypes.GoalTypes()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 3, listed[0].GoalCount)

	err = f.goalTypes.Delete(fitness.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	var inUse *apperr.InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 3, inUse.Count)
	assert.Contains(t, err.Error(), "3")

	// Trashed goals still reference the type.
	require.NoError(t, f.goals.Delete(goals[0]))
	err = f.goalTypes.Delete(fitness.ID)
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 3, inUse.Count)

	require.NoError(t, f.goals.PermanentDelete(goals[0]))
	err = f.goalTypes.Delete(fitness.ID)
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 2, inUse.Count)

	for _, id := range goals[1:] {
		require.NoError(t, f.goals.Delete(id))
		require.NoError(t, f.goals.PermanentDelete(id))
	}

	require.NoError(t, f.goalTypes.Delete(fitness.ID))
	_, err = f.goalTypes.GoalType(fitness.ID)
	assert.ErrorIs(t, err, repository.ErrGoalTypeNotFound)
	assert.ErrorIs(t, f.goalTypes.Delete(fitness.ID), repository.ErrGoalTypeNotFound)
}

func TestProgressTypeDeleteIsGuarded(t *testing.T) {
	f := newFixture(t)
	lesson, err := f.progressTypes.Create("Lesson", nil, "🎓")
	require.NoError(t, err)

	goal := f.goal(t, "Learn")
	entry, _, err := f.progress.Append(goal.ID, model.NewProgressEntry{Title: "one", Delta: 5, ProgressTypeID: &lesson.ID})
	require.NoError(t, err)

	types, err := f.progressTypes.ProgressTypes()
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, 1, types[0].UpdateCount)

	err = f.progressTypes.Delete(lesson.ID)
	var inUse *apperr.InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 1, inUse.Count)

	_, err = f.progress.Delete(entry.ID)
	require.NoError(t, err)
	require.NoError(t, f.progressTypes.Delete(lesson.ID))

	updated, err := f.progressTypes.Update(9999, model.ProgressTypePatch{Name: model.Some("x")})
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, repository.ErrProgressTypeNotFound)
}
