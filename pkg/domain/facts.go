package domain

// Facts is the minimal derived fact bundle for one source node.
// It is computed once at load time and never consults decisions or the
// cursor, which keeps the engine agent-agnostic.
type Facts struct {
	NameTokens []string `json:"nameTokens,omitempty"`
	Visible    bool     `json:"visible"`
	Locked     bool     `json:"locked,omitempty"`

	Frame  *Frame       `json:"frame,omitempty"`
	Layout *LayoutFacts `json:"layout,omitempty"`
	Style  *Style       `json:"style,omitempty"`
	Text   *TextFacts   `json:"text,omitempty"`
	Image  *ImageFacts  `json:"image,omitempty"`
}

// Frame is raw geometry, used only for hint derivation. The exported spec
// never carries it.
type Frame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
}

// LayoutFacts captures the source auto-layout attributes verbatim
// (values are the source domain's uppercase enums, e.g. "HORIZONTAL").
type LayoutFacts struct {
	Mode             string       `json:"mode,omitempty"`
	Positioning      string       `json:"positioning,omitempty"`
	SizingHorizontal string       `json:"sizingHorizontal,omitempty"`
	SizingVertical   string       `json:"sizingVertical,omitempty"`
	Constraints      *Constraints `json:"constraints,omitempty"`
	Grow             float64      `json:"grow,omitempty"`
	Align            string       `json:"align,omitempty"`
	ItemSpacing      float64      `json:"itemSpacing,omitempty"`
	PaddingLeft      float64      `json:"paddingLeft,omitempty"`
	PaddingRight     float64      `json:"paddingRight,omitempty"`
	PaddingTop       float64      `json:"paddingTop,omitempty"`
	PaddingBottom    float64      `json:"paddingBottom,omitempty"`
	PrimaryAxisAlign string       `json:"primaryAxisAlign,omitempty"`
	CounterAxisAlign string       `json:"counterAxisAlign,omitempty"`
	Wrap             string       `json:"wrap,omitempty"`
}

// Constraints are the source anchoring rules relative to the parent.
type Constraints struct {
	Horizontal string `json:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty"`
}

// ColorRef prefers a design-token name over a raw value; the hex fallback
// is kept for trees exported without variable bindings.
type ColorRef struct {
	Token       string `json:"token,omitempty"`
	FallbackHex string `json:"fallbackHex,omitempty"`
}

// Paint is a solid fill with optional non-default opacity.
type Paint struct {
	Color   ColorRef `json:"color"`
	Opacity float64  `json:"opacity,omitempty"`
}

// Stroke is a solid border.
type Stroke struct {
	Color   ColorRef `json:"color"`
	Width   float64  `json:"width,omitempty"`
	Align   string   `json:"align,omitempty"`
	Opacity float64  `json:"opacity,omitempty"`
}

// Shadow is a drop or inner shadow effect.
type Shadow struct {
	Type    string    `json:"type"`
	Color   *ColorRef `json:"color,omitempty"`
	Offset  *Offset   `json:"offset,omitempty"`
	Radius  float64   `json:"radius,omitempty"`
	Spread  float64   `json:"spread,omitempty"`
	Opacity float64   `json:"opacity,omitempty"`
}

// Offset is a 2D shadow offset.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style groups the visual facts of a node.
type Style struct {
	BackgroundColor *Paint   `json:"backgroundColor,omitempty"`
	Stroke          *Stroke  `json:"stroke,omitempty"`
	CornerRadius    float64  `json:"cornerRadius,omitempty"`
	Opacity         float64  `json:"opacity,omitempty"`
	ClipsContent    bool     `json:"clipsContent,omitempty"`
	Shadows         []Shadow `json:"shadows,omitempty"`
}

// TextFacts describe a text node's content and typography.
type TextFacts struct {
	Characters string    `json:"characters,omitempty"`
	Truncated  bool      `json:"charactersTruncated,omitempty"`
	Font       *FontRef  `json:"font,omitempty"`
	Color      *ColorRef `json:"textColor,omitempty"`
}

// FontRef prefers a text-style token over raw font attributes.
type FontRef struct {
	Token    string        `json:"token,omitempty"`
	Fallback *FontFallback `json:"fallback,omitempty"`
}

// FontFallback is the raw font description.
type FontFallback struct {
	Name   string  `json:"name,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// ImageFacts describe an image fill.
type ImageFacts struct {
	Hash      string  `json:"imageHash,omitempty"`
	ScaleMode string  `json:"scaleMode,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
}

// AutoLayout reports whether the node is an auto-layout container.
func (f Facts) AutoLayout() bool {
	return f.Layout != nil && (f.Layout.Mode == "HORIZONTAL" || f.Layout.Mode == "VERTICAL")
}

// HugWidth reports whether the node hugs its content on the horizontal axis.
func (f Facts) HugWidth() bool {
	return f.Layout != nil && f.Layout.SizingHorizontal == "HUG"
}

// HugHeight reports whether the node hugs its content on the vertical axis.
func (f Facts) HugHeight() bool {
	return f.Layout != nil && f.Layout.SizingVertical == "HUG"
}
