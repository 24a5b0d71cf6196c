package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutamari/gallery/models"
)

func TestGroupByDate_Empty(t *testing.T) {
	groups := models.GroupByDate(nil)
	assert.Len(t, groups, 0)
}

func TestGroupByDate_SingleDate(t *testing.T) {
	photos := []models.Photo{
		{ID: 3, Date: "2024-05-01"},
		{ID: 1, Date: "2024-05-01"},
	}

	groups := models.GroupByDate(photos)
	require.Len(t, groups, 1)
	assert.Equal(t, "2024-05-01", groups[0].Date)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, uint(3), groups[0].Items[0].ID)
	assert.Equal(t, uint(1), groups[0].Items[1].ID)
}

func TestGroupByDate_PreservesInputOrder(t *testing.T) {
	photos := []models.Photo{
		{ID: 5, Date: "2024-05-02"},
		{ID: 2, Date: "2024-05-02"},
		{ID: 4, Date: "2024-05-01"},
		{ID: 1, Date: "2024-04-30"},
	}

	groups := models.GroupByDate(photos)
	require.Len(t, groups, 3)
	assert.Equal(t, "2024-05-02", groups[0].Date)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "2024-05-01", groups[1].Date)
	assert.Len(t, groups[1].Items, 1)
	assert.Equal(t, "2024-04-30", groups[2].Date)
	assert.Len(t, groups[2].Items, 1)
}

func TestGroupByDate_OnlyMergesAdjacentRuns(t *testing.T) {
	// The function groups contiguous runs; a date resurfacing later in the
	// slice starts a new group rather than merging backwards.
	photos := []models.Photo{
		{ID: 1, Date: "2024-05-01"},
		{ID: 2, Date: "2024-04-30"},
		{ID: 3, Date: "2024-05-01"},
	}

	groups := models.GroupByDate(photos)
	assert.Len(t, groups, 3)
}
