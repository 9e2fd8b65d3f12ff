package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/export"
	"github.com/templui/goaltrack/internal/markdown"
	"github.com/templui/goaltrack/internal/model"
)

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = content
	}
	return files
}

func tableRows(doc string) []string {
	var rows []string
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "| ") && !strings.HasPrefix(line, "| # |") {
			rows = append(rows, line)
		}
	}
	return rows
}

func TestLearnPianoExport(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Learn Piano")

	milestone, err := f.milestones.Create(goal.ID, "Halfway", 50)
	require.NoError(t, err)

	f.entry(t, goal.ID, "Scales mastered", 30)
	_, _, err = f.progress.Append(goal.ID, model.NewProgressEntry{
		Title: "Reflection",
		Notes: ptr("practiced today"),
		Delta: 0,
	})
	require.NoError(t, err)
	_, achieved, err := f.progress.Append(goal.ID, model.NewProgressEntry{Title: "First piece", Delta: 20})
	require.NoError(t, err)

	progress, err := f.progress.Aggregate(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, progress)

	require.Len(t, achieved, 1)
	assert.Equal(t, milestone.ID, achieved[0].ID)

	doc, err := f.exports.Markdown([]int64{goal.ID})
	require.NoError(t, err)

	assert.Contains(t, doc, "## 🎯 Learn Piano")
	assert.Contains(t, doc, "- **Progress:** 50%")

	rows := tableRows(doc)
	require.Len(t, rows, 3)

	var reflection string
	for _, row := range rows {
		if strings.Contains(row, "Reflection") {
			reflection = row
		}
	}
	require.NotEmpty(t, reflection)
	assert.Contains(t, reflection, export.ReflectionMarker+" Reflection")
	assert.Contains(t, reflection, "| - |")
	assert.Contains(t, reflection, "practiced today")

	meta := markdown.NewParser().ExtractFrontmatter([]byte(doc))
	assert.EqualValues(t, 1, meta["goal_count"])
}

func TestExportSkipsMissingAndTrashedGoals(t *testing.T) {
	f := newFixture(t)
	a := f.goal(t, "Alpha")
	b := f.goal(t, "Bravo")
	require.NoError(t, f.goals.Delete(b.ID))

	doc, err := f.exports.Markdown([]int64{a.ID, 9999, b.ID, a.ID})
	require.NoError(t, err)

	assert.Contains(t, doc, "## 🎯 Alpha")
	assert.NotContains(t, doc, "Bravo")
	assert.Equal(t, 1, strings.Count(doc, "## 🎯 Alpha"))
	assert.Contains(t, doc, "goal_count: 1")

	empty, err := f.exports.Markdown(nil)
	require.NoError(t, err)
	assert.Contains(t, empty, "goal_count: 0")
}

func TestExportOrdersByGoalTypeThenTitle(t *testing.T) {
	f := newFixture(t)
	first, err := f.goalTypes.Create("First", nil, "", "1️⃣")
	require.NoError(t, err)
	second, err := f.goalTypes.Create("Second", nil, "", "2️⃣")
	require.NoError(t, err)

	z, err := f.goals.Create(model.NewGoal{Title: "Zulu", GoalTypeID: &first.ID})
	require.NoError(t, err)
	y, err := f.goals.Create(model.NewGoal{Title: "Yankee", GoalTypeID: &second.ID})
	require.NoError(t, err)
	x, err := f.goals.Create(model.NewGoal{Title: "Xray", GoalTypeID: &first.ID})
	require.NoError(t, err)

	doc, err := f.exports.Markdown([]int64{y.ID, z.ID, x.ID})
	require.NoError(t, err)

	xi := strings.Index(doc, "Xray")
	zi := strings.Index(doc, "Zulu")
	yi := strings.Index(doc, "Yankee")
	assert.Less(t, xi, zi)
	assert.Less(t, zi, yi)
}

func TestArchiveSkipsImagesWithoutPayload(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Hike")
	entry := f.entry(t, goal.ID, "Summit", 60)

	refs, err := f.images.Attach(entry.ID, []ImageUpload{
		{Data: pngImage(t, 80, 40), Caption: ptr("view from the top")},
		{Data: pngImage(t, 30, 30), Caption: ptr("broken")},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)

	_, err = f.db.Exec(`UPDATE images SET display_data = NULL WHERE id = ?`, refs[1].ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.exports.WriteArchive(&buf, []int64{goal.ID}))

	files := unzip(t, buf.Bytes())
	assert.Len(t, files, 2)
	assert.Contains(t, files, "images/"+refs[0].Filename)
	assert.NotContains(t, files, "images/"+refs[1].Filename)

	doc := string(files[export.MarkdownName])
	assert.Contains(t, doc, "### Attached Images")
	assert.Contains(t, doc, "![view from the top](images/"+refs[0].Filename+")")
	assert.NotContains(t, doc, refs[1].Filename)
	assert.NotContains(t, doc, "broken")
}

func TestPreviewHTML(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Write a novel")
	f.entry(t, goal.ID, "Outline", 10)

	html, err := f.exports.PreviewHTML([]int64{goal.ID})
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
	assert.Contains(t, string(html), "Write a novel")
	assert.NotContains(t, string(html), "goal_count")
}

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
	failURL bool
}

func (m *memoryStorage) Save(path string, file io.Reader, contentType string) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.objects[path] = data
	m.types[path] = contentType
	return nil
}

func (m *memoryStorage) Delete(path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) URL(path string) (string, error) {
	if m.failURL {
		return "", errors.New("signing failed")
	}
	return "https://storage.test/" + path + "?signed=1", nil
}

func TestPublish(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
	f := newFixture(t, withStorage(store))
	goal := f.goal(t, "Travel")

	published, err := f.exports.Publish([]int64{goal.ID})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(published.Key, "exports/goals-export-"))
	assert.True(t, strings.HasSuffix(published.Filename, ".zip"))
	assert.Equal(t, "https://storage.test/"+published.Key+"?signed=1", published.URL)
	assert.Equal(t, "application/zip", store.types[published.Key])

	files := unzip(t, store.objects[published.Key])
	assert.Contains(t, string(files[export.MarkdownName]), "Travel")
}

func TestPublishRemovesObjectWhenSigningFails(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}, failURL: true}
	f := newFixture(t, withStorage(store))
	goal := f.goal(t, "Travel")

	_, err := f.exports.Publish([]int64{goal.ID})
	require.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestPublishDisabled(t *testing.T) {
	f := newFixture(t)

	_, err := f.exports.Publish([]int64{1})
	assert.ErrorIs(t, err, ErrPublishingDisabled)
	assert.Equal(t, apperr.CodeUnavailable, apperr.Code(err))
}
