package specloom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
)

const facadeDesign = `{
	"id": "1:0", "name": "Screen", "type": "FRAME", "width": 390, "height": 844,
	"children": [
		{"id": "1:1", "name": "Title", "type": "TEXT", "characters": "Hello"},
		{"id": "1:2", "name": "HeroImage", "type": "RECTANGLE",
			"fills": [{"type": "IMAGE", "imageHash": "abc123", "scaleMode": "FILL"}]}
	]
}`

func TestFacade_Integration(t *testing.T) {
	ctx := context.Background()
	stateDir := t.TempDir()

	client, err := specloom.New(specloom.WithStateDir(stateDir))
	require.NoError(t, err)

	status, err := client.Init(ctx, "test", strings.NewReader(facadeDesign), domain.UIKit)
	require.NoError(t, err)
	assert.Equal(t, 3, status.NodeCount)
	assert.Equal(t, "1:0", status.NextNodeID)

	batch, err := client.Next(ctx, "test", 3)
	require.NoError(t, err)
	require.Len(t, batch.Items, 3)

	res, err := client.Apply(ctx, "test", []byte(`{"decisions": {
		"1:0": {"component": {"base": "UIView"}, "layout": {"kind": "root"}},
		"1:1": {"component": {"base": "UILabel"}, "properties": {"text": "Hello"}},
		"1:2": {"component": {"base": "UIImageView"}, "properties": {"image": "abc123"}}
	}}`))
	require.NoError(t, err)
	assert.Len(t, res.Applied, 3)

	findings, err := client.Validate(ctx, "test")
	require.NoError(t, err)
	assert.False(t, domain.HasErrors(findings))

	tree, err := client.Export(ctx, "test", engine.ExportOptions{Absorb: true})
	require.NoError(t, err)
	assert.Equal(t, "UIView", tree.Root.Component.Base)
	assert.Len(t, tree.Root.Children, 2)

	// The session survives a fresh client over the same state directory.
	reopened, err := specloom.New(specloom.WithStateDir(stateDir))
	require.NoError(t, err)
	status, err = reopened.Status(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, status.RemainingCount)

	ids, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"test"}, ids)

	require.NoError(t, reopened.Delete(ctx, "test"))
	_, err = reopened.Status(ctx, "test")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestFacade_CustomRules(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules(domain.UIKit)
	rules.DefaultBase = "BaseView"

	client, err := specloom.New(
		specloom.WithStateDir(t.TempDir()),
		specloom.WithRules(domain.UIKit, rules),
	)
	require.NoError(t, err)

	_, err = client.Init(ctx, "custom", strings.NewReader(facadeDesign), domain.UIKit)
	require.NoError(t, err)

	// Undecided nodes fall back to the overridden default base.
	tree, err := client.Export(ctx, "custom", engine.ExportOptions{Partial: true})
	require.NoError(t, err)
	assert.Equal(t, "BaseView", tree.Root.Component.Base)
}

func TestFacade_MaxTextLen(t *testing.T) {
	ctx := context.Background()
	client, err := specloom.New(
		specloom.WithStateDir(t.TempDir()),
		specloom.WithMaxTextLen(3),
	)
	require.NoError(t, err)

	_, err = client.Init(ctx, "trunc", strings.NewReader(facadeDesign), domain.UIKit)
	require.NoError(t, err)

	facts, err := client.Facts(ctx, "trunc", "1:1")
	require.NoError(t, err)
	require.NotNil(t, facts.Text)
	assert.Equal(t, "Hel...", facts.Text.Characters)
	assert.True(t, facts.Text.Truncated)
}
