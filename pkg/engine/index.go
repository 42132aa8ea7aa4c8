package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/specloom/specloom/pkg/domain"
)

// rawNode mirrors the relevant subset of a design-tool node export.
// Pointer fields distinguish "absent" from zero values.
type rawNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Visible *bool  `json:"visible"`
	Locked  bool   `json:"locked"`

	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Rotation *float64 `json:"rotation"`

	LayoutMode             string          `json:"layoutMode"`
	LayoutPositioning      string          `json:"layoutPositioning"`
	LayoutSizingHorizontal string          `json:"layoutSizingHorizontal"`
	LayoutSizingVertical   string          `json:"layoutSizingVertical"`
	LayoutGrow             *float64        `json:"layoutGrow"`
	LayoutAlign            string          `json:"layoutAlign"`
	Constraints            *rawConstraints `json:"constraints"`
	ItemSpacing            *float64        `json:"itemSpacing"`
	PaddingLeft            *float64        `json:"paddingLeft"`
	PaddingRight           *float64        `json:"paddingRight"`
	PaddingTop             *float64        `json:"paddingTop"`
	PaddingBottom          *float64        `json:"paddingBottom"`
	PrimaryAxisAlignItems  string          `json:"primaryAxisAlignItems"`
	CounterAxisAlignItems  string          `json:"counterAxisAlignItems"`
	LayoutWrap             string          `json:"layoutWrap"`

	Fills        []rawPaint  `json:"fills"`
	Strokes      []rawPaint  `json:"strokes"`
	StrokeWeight *float64    `json:"strokeWeight"`
	StrokeWidth  *float64    `json:"strokeWidth"`
	StrokeAlign  string      `json:"strokeAlign"`
	CornerRadius *float64    `json:"cornerRadius"`
	Opacity      *float64    `json:"opacity"`
	ClipsContent bool        `json:"clipsContent"`
	Effects      []rawEffect `json:"effects"`

	Characters            string        `json:"characters"`
	Text                  string        `json:"text"`
	FontName              string        `json:"fontName"`
	FontSize              *float64      `json:"fontSize"`
	TextVariableName      string        `json:"textVariableName"`
	TextStyleVariableName string        `json:"textStyleVariableName"`
	Style                 *rawTextStyle `json:"style"`

	ImageHash string `json:"imageHash"`
	ImageRef  string `json:"imageRef"`

	Children []*rawNode `json:"children"`
}

type rawConstraints struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

type rawColor struct {
	ColorVariableName string `json:"colorVariableName"`
	HexRGBA           string `json:"hexRGBA"`
}

type rawPaint struct {
	Type      string    `json:"type"`
	Visible   *bool     `json:"visible"`
	Opacity   *float64  `json:"opacity"`
	Color     *rawColor `json:"color"`
	ImageHash string    `json:"imageHash"`
	ImageRef  string    `json:"imageRef"`
	ScaleMode string    `json:"scaleMode"`
}

type rawEffect struct {
	Type    string     `json:"type"`
	Visible *bool      `json:"visible"`
	Color   *rawColor  `json:"color"`
	Offset  *rawOffset `json:"offset"`
	Radius  *float64   `json:"radius"`
	Spread  *float64   `json:"spread"`
	Opacity *float64   `json:"opacity"`
}

type rawOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawTextStyle struct {
	FontPostScriptName string   `json:"fontPostScriptName"`
	FontFamily         string   `json:"fontFamily"`
	FontSize           *float64 `json:"fontSize"`
	FontWeight         *float64 `json:"fontWeight"`
}

type rawEnvelope struct {
	Document *rawNode `json:"document"`
}

func (n *rawNode) visible() bool {
	return n.Visible == nil || *n.Visible
}

// indexOptions control what the resolver keeps.
type indexOptions struct {
	includeInvisible bool
	maxTextLen       int
}

// loadTree parses a raw design export (a bare node object or a
// {"document": {...}} envelope) and indexes it into the flat node store.
// It fails with a ShapeError on empty input, a root without an id, or a
// duplicate id anywhere in the tree.
func loadTree(r io.Reader, opts indexOptions) (rootID string, nodes map[string]*domain.Node, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", nil, &domain.ShapeError{Reason: "input is empty"}
	}

	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, &domain.ShapeError{Reason: "input is not a JSON object: " + err.Error()}
	}
	root := env.Document
	if root == nil {
		root = &rawNode{}
		if err := json.Unmarshal(data, root); err != nil {
			return "", nil, &domain.ShapeError{Reason: "input is not a JSON object: " + err.Error()}
		}
	}
	if root.ID == "" {
		return "", nil, &domain.ShapeError{Reason: "root node is missing a string 'id'"}
	}

	nodes = make(map[string]*domain.Node)
	if err := indexNode(root, "", 0, opts, nodes); err != nil {
		return "", nil, err
	}
	if len(nodes) == 0 {
		return "", nil, &domain.ShapeError{Reason: "input tree has no visible nodes"}
	}
	return root.ID, nodes, nil
}

func indexNode(n *rawNode, parentID string, depth int, opts indexOptions, nodes map[string]*domain.Node) error {
	if !opts.includeInvisible && !n.visible() {
		return nil
	}
	if n.ID == "" {
		return nil // unidentifiable nodes cannot be addressed; skip silently
	}
	if _, dup := nodes[n.ID]; dup {
		return &domain.ShapeError{Reason: fmt.Sprintf("duplicate node id %q", n.ID)}
	}

	var childIDs []string
	for _, c := range n.Children {
		if c == nil || c.ID == "" {
			continue
		}
		if !opts.includeInvisible && !c.visible() {
			continue
		}
		childIDs = append(childIDs, c.ID)
	}

	nodes[n.ID] = &domain.Node{
		ID:       n.ID,
		Name:     n.Name,
		Type:     n.Type,
		ParentID: parentID,
		Depth:    depth,
		ChildIDs: childIDs,
		Facts:    resolveFacts(n, opts.maxTextLen),
	}

	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if err := indexNode(c, n.ID, depth+1, opts, nodes); err != nil {
			return err
		}
	}
	return nil
}

// bfsOrder walks the indexed store breadth-first: root first, then level
// by level, siblings in source child order. A decided parent is therefore
// always available before any of its children come up.
func bfsOrder(nodes map[string]*domain.Node, rootID string) []string {
	order := make([]string, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		n, ok := nodes[id]
		if !ok {
			continue
		}
		order = append(order, id)
		queue = append(queue, n.ChildIDs...)
	}
	return order
}

var (
	camelBoundaryRE = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	tokenRE         = regexp.MustCompile(`[a-z0-9]+`)
	tokenSeparators = strings.NewReplacer("/", " ", "-", " ", "_", " ")
)

// nameTokens splits a layer name into lowercase words ("SubmitButton/CTA"
// -> ["submit", "button", "cta"]).
func nameTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	s := camelBoundaryRE.ReplaceAllString(raw, "$1 $2")
	s = tokenSeparators.Replace(s)
	return tokenRE.FindAllString(strings.ToLower(s), -1)
}
