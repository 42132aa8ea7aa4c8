package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState()
		state.Decisions["1:2"] = &domain.Decision{
			Component:  domain.Component{Base: "UIView"},
			Properties: map[string]any{"backgroundColor": "color/surface"},
		}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.RootID, loaded.RootID)
		assert.Equal(t, state.UISystem, loaded.UISystem)
		assert.Equal(t, state.Order, loaded.Order)
		require.Contains(t, loaded.Decisions, "1:2")
		assert.Equal(t, "UIView", loaded.Decisions["1:2"].Component.Base)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrStateNotFound, "Load after Delete should return ErrStateNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractState())
		_ = store.Save(ctx, id2, contractState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// contractState builds a minimal two-node session for round-trip checks.
func contractState() *domain.State {
	root := &domain.Node{
		ID: "1:1", Name: "Screen", Type: "FRAME",
		ChildIDs: []string{"1:2"},
		Facts:    domain.Facts{NameTokens: []string{"screen"}},
	}
	child := &domain.Node{
		ID: "1:2", Name: "Card", Type: "FRAME",
		ParentID: "1:1", Depth: 1,
		Facts: domain.Facts{NameTokens: []string{"card"}},
	}
	return &domain.State{
		Version:   domain.StateVersion,
		UISystem:  domain.UIKit,
		RootID:    root.ID,
		Nodes:     map[string]*domain.Node{root.ID: root, child.ID: child},
		Order:     []string{root.ID, child.ID},
		Decisions: make(map[string]*domain.Decision),
	}
}
