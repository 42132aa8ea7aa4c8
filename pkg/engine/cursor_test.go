package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
)

func TestNext_BreadthFirst(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	batch, err := eng.Next(s, 10)
	require.NoError(t, err)
	assert.False(t, batch.Done)
	require.Len(t, batch.Items, 5)

	var ids []string
	for _, item := range batch.Items {
		ids = append(ids, item.Node.ID)
	}
	// Root first, then the root's children in source order, then grandchildren.
	assert.Equal(t, []string{"1:0", "1:1", "1:2", "1:3", "1:4"}, ids)
}

func TestNext_CountBatching(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	batch, err := eng.Next(s, 2)
	require.NoError(t, err)
	assert.Len(t, batch.Items, 2)

	// Zero and negative fall back to a single item.
	batch, err = eng.Next(s, 0)
	require.NoError(t, err)
	assert.Len(t, batch.Items, 1)
	assert.Equal(t, "1:0", batch.Items[0].Node.ID)
}

func TestNext_ReadOnlyCursor(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	// Next never advances on its own; only Apply moves a node out of pending.
	first, err := eng.Next(s, 1)
	require.NoError(t, err)
	second, err := eng.Next(s, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Items[0].Node.ID, second.Items[0].Node.ID)

	mustApply(t, eng, s, `{"id": "1:0", "component": {"base": "UIView"}}`)
	third, err := eng.Next(s, 1)
	require.NoError(t, err)
	assert.Equal(t, "1:1", third.Items[0].Node.ID)
}

func TestNext_ParentContext(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	mustApply(t, eng, s, `{"id": "1:0", "component": {"base": "UIView"}}`)
	mustApply(t, eng, s, `{"id": "1:1", "component": {"base": "UITableView"}, "layout": {"kind": "list"}}`)

	batch, err := eng.Next(s, 10)
	require.NoError(t, err)
	require.Len(t, batch.Items, 3)

	// The card under the decided table surfaces the cell requirement and a
	// sizing hint derived from its frame.
	var card *engine.NextItem
	for i := range batch.Items {
		if batch.Items[i].Node.ID == "1:4" {
			card = &batch.Items[i]
		}
	}
	require.NotNil(t, card)
	require.NotNil(t, card.Parent)
	assert.Equal(t, "1:1", card.Parent.ID)
	require.NotNil(t, card.ParentDecision)
	assert.Equal(t, "UITableView", card.ParentDecision.Base())
	require.NotNil(t, card.Requirements)
	assert.Equal(t, "UITableViewCell", card.Requirements.MustUseComponentBase)
	require.NotNil(t, card.Hints.CellSizing)
	assert.Equal(t, domain.CellFixed, card.Hints.CellSizing.CellSizing)
	require.NotNil(t, card.Hints.CellSizing.FixedSize)
	assert.Equal(t, 120.0, card.Hints.CellSizing.FixedSize.Height)
}

func TestNext_Hints(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	batch, err := eng.Next(s, 10)
	require.NoError(t, err)

	byID := make(map[string]engine.NextItem)
	for _, item := range batch.Items {
		byID[item.Node.ID] = item
	}

	text := byID["1:2"]
	require.NotNil(t, text.Hints.Component)
	assert.Equal(t, "UILabel", text.Hints.Component.Base)

	image := byID["1:3"]
	require.NotNil(t, image.Hints.Component)
	assert.Equal(t, "UIImageView", image.Hints.Component.Base)
	assert.Equal(t, "scaleAspectFill", image.Hints.ContentMode)

	// No cell requirement means no cell sizing hint.
	assert.Nil(t, text.Hints.CellSizing)
}

func TestNext_Done(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)
	decideAll(t, eng, s)

	batch, err := eng.Next(s, 5)
	require.NoError(t, err)
	assert.True(t, batch.Done)
	assert.Empty(t, batch.Items)
}
