package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipquery/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndListQuestions(t *testing.T) {
	db := openTestDB(t)

	plan := model.Plan{Kind: model.PlanAggregate, Op: model.OpSum, ValueField: "Cost"}
	require.NoError(t, db.SaveQuestion("total cost this month", plan, "answered"))
	require.NoError(t, db.SaveQuestion("gibberish", model.Plan{Kind: model.PlanCount, Unrecognized: true}, "unrecognized"))

	entries, err := db.ListQuestions(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "gibberish", entries[0].Question)
	assert.Equal(t, "unrecognized", entries[0].Status)
	assert.True(t, entries[0].Plan.Unrecognized)

	assert.Equal(t, "total cost this month", entries[1].Question)
	assert.Equal(t, model.PlanAggregate, entries[1].Plan.Kind)
	assert.Equal(t, model.OpSum, entries[1].Plan.Op)
	assert.Equal(t, "Cost", entries[1].Plan.ValueField)
	assert.NotEmpty(t, entries[1].ID)
	assert.False(t, entries[1].CreatedAt.IsZero())
}

func TestListQuestionsLimit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.SaveQuestion("q", model.Plan{Kind: model.PlanCount}, "answered"))
	}

	entries, err := db.ListQuestions(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Non-positive limit falls back to the default.
	entries, err = db.ListQuestions(0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestListQuestionsEmpty(t *testing.T) {
	db := openTestDB(t)

	entries, err := db.ListQuestions(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
