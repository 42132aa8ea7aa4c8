package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/adapters/memory"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	state := &domain.State{
		Version:  domain.StateVersion,
		UISystem: domain.UIKit,
		RootID:   "1:1",
		Nodes: map[string]*domain.Node{
			"1:1": {ID: "1:1", Name: "Screen", Type: "FRAME"},
		},
		Order:     []string{"1:1"},
		Decisions: make(map[string]*domain.Decision),
	}
	require.NoError(t, store.Save(ctx, "iso", state))

	// Mutating the original after Save must not leak into the store.
	state.Decisions["1:1"] = &domain.Decision{Component: domain.Component{Base: "UIView"}}

	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	require.Empty(t, loaded.Decisions)

	// Mutating a loaded copy must not affect subsequent loads.
	loaded.Order = append(loaded.Order, "bogus")
	again, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	require.Equal(t, []string{"1:1"}, again.Order)
}
