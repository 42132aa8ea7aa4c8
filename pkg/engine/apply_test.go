package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
)

func TestApply_SingleObject(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	res := mustApply(t, eng, s, `{
		"id": "1:2",
		"component": {"base": "UILabel"},
		"layout": {"kind": "pins", "pins": "pins=L=16:T=8"},
		"properties": {"text": "Hello"}
	}`)
	assert.Equal(t, []string{"1:2"}, res.Applied)

	dec := s.Decision("1:2")
	require.NotNil(t, dec)
	assert.Equal(t, "UILabel", dec.Component.Base)
	assert.Equal(t, "pins=L=16:T=8", dec.Layout.Pins)
	assert.Equal(t, "Hello", dec.Properties["text"])
}

func TestApply_List(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	res := mustApply(t, eng, s, `[
		{"id": "1:0", "component": {"base": "UIView"}},
		{"id": "1:1", "component": {"base": "UITableView"}}
	]`)
	assert.Equal(t, []string{"1:0", "1:1"}, res.Applied)
	assert.True(t, s.Decided("1:0"))
	assert.True(t, s.Decided("1:1"))
}

func TestApply_DecisionsMap(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	res := mustApply(t, eng, s, `{"decisions": {
		"1:2": {"component": {"base": "UILabel"}},
		"1:0": {"component": {"base": "UIView"}}
	}}`)
	// Map-shaped patches apply in sorted id order.
	assert.Equal(t, []string{"1:0", "1:2"}, res.Applied)
}

func TestApply_Idempotent(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	patch := `{"id": "1:2", "component": {"base": "UILabel"}, "properties": {"text": "Hello"}}`
	first := mustApply(t, eng, s, patch)
	second := mustApply(t, eng, s, patch)

	assert.Equal(t, first.Applied, second.Applied)
	decided, _ := s.Progress()
	assert.Equal(t, 1, decided)
	assert.Equal(t, "UILabel", s.Decision("1:2").Component.Base)
}

func TestApply_Overwrite(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	mustApply(t, eng, s, `{"id": "1:2", "component": {"base": "UIView"}}`)
	mustApply(t, eng, s, `{"id": "1:2", "component": {"base": "UILabel"}}`)
	assert.Equal(t, "UILabel", s.Decision("1:2").Component.Base)
}

func TestApply_RejectsPerEntry(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	res, err := eng.Apply(s, []byte(`[
		{"id": "1:2", "component": {"base": "UILabel"}},
		{"id": "9:9", "component": {"base": "UIView"}},
		{"id": "1:3", "component": {"base": ""}},
		{"id": "1:4", "component": {"base": "UIView"}, "layout": {"pins": "pins=Q=5"}},
		{"id": "1:1", "component": {"base": "UIView"}, "layout": {"kind": "pins"}}
	]`))
	require.NoError(t, err)

	// Good entries land, each bad entry is rejected on its own.
	assert.Equal(t, []string{"1:2"}, res.Applied)
	require.Len(t, res.Rejected, 4)
	assert.Equal(t, "9:9", res.Rejected[0].NodeID)
	assert.Contains(t, res.Rejected[0].Reason, "unknown node")
	assert.Contains(t, res.Rejected[1].Reason, "non-empty")
	assert.Contains(t, res.Rejected[2].Reason, `"Q"`)
	assert.Contains(t, res.Rejected[3].Reason, "requires a pins string")

	assert.False(t, s.Decided("1:3"))
	assert.False(t, s.Decided("1:4"))
}

func TestApply_ShapeErrors(t *testing.T) {
	eng := engine.New()
	s := mustInit(t, eng, screenJSON)

	for name, payload := range map[string]string{
		"invalid json":  `{`,
		"scalar":        `42`,
		"empty list":    `[]`,
		"missing id":    `{"component": {"base": "UIView"}}`,
		"non-object":    `[1, 2]`,
		"empty map":     `{"decisions": {}}`,
		"bad map value": `{"decisions": {"1:0": "UIView"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := eng.Apply(s, []byte(payload))
			var se *domain.ShapeError
			require.ErrorAs(t, err, &se)
		})
	}
	decided, _ := s.Progress()
	assert.Equal(t, 0, decided)
}
