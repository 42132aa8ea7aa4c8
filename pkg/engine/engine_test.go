package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
)

// screenJSON is a small but representative screen: a feed container with
// one card, a text node and an image node.
const screenJSON = `{
	"id": "1:0", "name": "Screen", "type": "FRAME", "width": 390, "height": 844,
	"children": [
		{"id": "1:1", "name": "Feed", "type": "FRAME", "children": [
			{"id": "1:4", "name": "PostCard", "type": "FRAME", "width": 390, "height": 120}
		]},
		{"id": "1:2", "name": "Title", "type": "TEXT", "characters": "Hello"},
		{"id": "1:3", "name": "HeroImage", "type": "RECTANGLE",
			"fills": [{"type": "IMAGE", "imageHash": "h1", "scaleMode": "FILL"}]}
	]
}`

func mustInit(t *testing.T, eng *engine.Engine, input string) *domain.State {
	t.Helper()
	s, err := eng.Init(strings.NewReader(input), domain.UIKit)
	require.NoError(t, err)
	return s
}

func mustApply(t *testing.T, eng *engine.Engine, s *domain.State, patch string) *engine.ApplyResult {
	t.Helper()
	res, err := eng.Apply(s, []byte(patch))
	require.NoError(t, err)
	require.Empty(t, res.Rejected)
	return res
}

// decideAll applies a plain container decision to every remaining node.
func decideAll(t *testing.T, eng *engine.Engine, s *domain.State) {
	t.Helper()
	for _, id := range s.Pending() {
		mustApply(t, eng, s, `{"id": "`+id+`", "component": {"base": "UIView"}}`)
	}
}

func TestStatus(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	st := eng.Status(s)
	assert.Equal(t, domain.UIKit, st.UISystem)
	assert.Equal(t, "1:0", st.RootID)
	assert.Equal(t, 5, st.NodeCount)
	assert.Equal(t, 0, st.DecidedCount)
	assert.Equal(t, 5, st.RemainingCount)
	assert.Equal(t, "1:0", st.NextNodeID)

	mustApply(t, eng, s, `{"id": "1:0", "component": {"base": "UIView"}, "layout": {"kind": "root"}}`)

	st = eng.Status(s)
	assert.Equal(t, 1, st.DecidedCount)
	assert.Equal(t, 4, st.RemainingCount)
	assert.Equal(t, "1:1", st.NextNodeID)

	decideAll(t, eng, s)
	st = eng.Status(s)
	assert.Equal(t, 0, st.RemainingCount)
	assert.Empty(t, st.NextNodeID)
}

func TestSkeleton(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	sk, err := eng.Skeleton(s, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "1:0", sk.ID)
	require.Len(t, sk.Children, 3)
	// Depth 1 stops before the card under the feed.
	assert.Empty(t, sk.Children[0].Children)

	sk, err = eng.Skeleton(s, "1:1", 1)
	require.NoError(t, err)
	require.Len(t, sk.Children, 1)
	assert.Equal(t, "1:4", sk.Children[0].ID)

	_, err = eng.Skeleton(s, "9:9", 1)
	var ue *domain.UnknownNodeError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "9:9", ue.NodeID)
}

func TestChildrenAndFacts(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	children, err := eng.Children(s, "1:0")
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "Feed", children[0].Name)

	facts, err := eng.Facts(s, "1:2")
	require.NoError(t, err)
	require.NotNil(t, facts.Text)
	assert.Equal(t, "Hello", facts.Text.Characters)

	_, err = eng.Children(s, "9:9")
	var ue *domain.UnknownNodeError
	assert.ErrorAs(t, err, &ue)
	_, err = eng.Facts(s, "9:9")
	assert.ErrorAs(t, err, &ue)
}

func TestCheckState(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)
	require.NoError(t, engine.CheckState(s))

	assert.Error(t, engine.CheckState(nil))

	bad := *s
	bad.Version = 99
	assert.Error(t, engine.CheckState(&bad))

	bad = *s
	bad.RootID = "9:9"
	assert.Error(t, engine.CheckState(&bad))

	bad = *s
	bad.Decisions = map[string]*domain.Decision{
		"9:9": {Component: domain.Component{Base: "UIView"}},
	}
	assert.Error(t, engine.CheckState(&bad))
}
