package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/pipeline"
)

func TestDecodeGridItems(t *testing.T) {
	t.Parallel()

	manifest := `[
		{"full_id": "room1_grid", "count": 100},
		{"full_id": "room2_grid", "count": 0}
	]`

	items, err := pipeline.DecodeGridItems(strings.NewReader(manifest))
	require.NoError(t, err)
	assert.Equal(t, []pipeline.GridItem{
		{FullID: "room1_grid", Count: 100},
		{FullID: "room2_grid", Count: 0},
	}, items)
}

func TestDecodeGridItemsEmptyList(t *testing.T) {
	t.Parallel()

	items, err := pipeline.DecodeGridItems(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeGridItemsNotAList(t *testing.T) {
	t.Parallel()

	_, err := pipeline.DecodeGridItems(strings.NewReader(`{"full_id": "room1_grid"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrManifestNotAList)
}

func TestDecodeGridItemsMissingFullID(t *testing.T) {
	t.Parallel()

	_, err := pipeline.DecodeGridItems(strings.NewReader(`[{"count": 10}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrItemMissingField)
}

func TestDecodeGridItemsMissingCount(t *testing.T) {
	t.Parallel()

	_, err := pipeline.DecodeGridItems(strings.NewReader(`[{"full_id": "room1_grid"}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrItemMissingField)
}

func TestDecodeGridItemsNegativeCount(t *testing.T) {
	t.Parallel()

	_, err := pipeline.DecodeGridItems(strings.NewReader(`[{"full_id": "room1_grid", "count": -1}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrNegativeItemCount)
}

func TestDecodeGridItemsDuplicateID(t *testing.T) {
	t.Parallel()

	manifest := `[
		{"full_id": "room1_grid", "count": 100},
		{"full_id": "room1_grid", "count": 50}
	]`

	_, err := pipeline.DecodeGridItems(strings.NewReader(manifest))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrDuplicateItemID)
}

func TestDecodeGridItemsUnsafeID(t *testing.T) {
	t.Parallel()

	// The ids are spliced into JSON, so the backslash is escaped.
	for _, id := range []string{"..", ".", "a/b", `a\\b`} {
		_, err := pipeline.DecodeGridItems(strings.NewReader(`[{"full_id": "` + id + `", "count": 1}]`))
		require.Error(t, err, id)
		assert.ErrorIs(t, err, pipeline.ErrUnsafeItemID, id)
	}
}
