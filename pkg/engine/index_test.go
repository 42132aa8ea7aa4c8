package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
)

func TestNameTokens(t *testing.T) {
	cases := map[string][]string{
		"SubmitButton/CTA": {"submit", "button", "cta"},
		"hero-image_large": {"hero", "image", "large"},
		"Frame 42":         {"frame", "42"},
		"userAvatarView":   {"user", "avatar", "view"},
		"":                 nil,
		"!!!":              nil,
	}
	for input, want := range cases {
		assert.Equal(t, want, nameTokens(input), input)
	}
}

func TestLoadTree_Envelope(t *testing.T) {
	input := `{"document": {"id": "0:0", "name": "Doc", "type": "DOCUMENT", "children": [
		{"id": "0:1", "name": "Page", "type": "CANVAS"}
	]}}`
	rootID, nodes, err := loadTree(strings.NewReader(input), indexOptions{maxTextLen: 200})
	require.NoError(t, err)
	assert.Equal(t, "0:0", rootID)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "0:0", nodes["0:1"].ParentID)
	assert.Equal(t, 1, nodes["0:1"].Depth)
}

func TestLoadTree_DuplicateID(t *testing.T) {
	input := `{"id": "1:0", "name": "A", "type": "FRAME", "children": [
		{"id": "1:0", "name": "B", "type": "FRAME"}
	]}`
	_, _, err := loadTree(strings.NewReader(input), indexOptions{maxTextLen: 200})
	var se *domain.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, "duplicate")
}

func TestLoadTree_BadInput(t *testing.T) {
	for name, input := range map[string]string{
		"empty":      "",
		"whitespace": "   \n",
		"not json":   "hello",
		"no id":      `{"name": "A", "type": "FRAME"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := loadTree(strings.NewReader(input), indexOptions{maxTextLen: 200})
			var se *domain.ShapeError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestLoadTree_SkipsInvisible(t *testing.T) {
	input := `{"id": "1:0", "name": "A", "type": "FRAME", "children": [
		{"id": "1:1", "name": "Hidden", "type": "FRAME", "visible": false},
		{"id": "1:2", "name": "Shown", "type": "FRAME"}
	]}`

	_, nodes, err := loadTree(strings.NewReader(input), indexOptions{maxTextLen: 200})
	require.NoError(t, err)
	assert.NotContains(t, nodes, "1:1")
	assert.Equal(t, []string{"1:2"}, nodes["1:0"].ChildIDs)

	_, nodes, err = loadTree(strings.NewReader(input), indexOptions{includeInvisible: true, maxTextLen: 200})
	require.NoError(t, err)
	assert.Contains(t, nodes, "1:1")
	assert.Equal(t, []string{"1:1", "1:2"}, nodes["1:0"].ChildIDs)
}

func TestBFSOrder(t *testing.T) {
	input := `{"id": "r", "name": "Root", "type": "FRAME", "children": [
		{"id": "a", "name": "A", "type": "FRAME", "children": [
			{"id": "a1", "name": "A1", "type": "FRAME"},
			{"id": "a2", "name": "A2", "type": "FRAME"}
		]},
		{"id": "b", "name": "B", "type": "FRAME", "children": [
			{"id": "b1", "name": "B1", "type": "FRAME"}
		]}
	]}`
	rootID, nodes, err := loadTree(strings.NewReader(input), indexOptions{maxTextLen: 200})
	require.NoError(t, err)

	order := bfsOrder(nodes, rootID)
	assert.Equal(t, []string{"r", "a", "b", "a1", "a2", "b1"}, order)
}
