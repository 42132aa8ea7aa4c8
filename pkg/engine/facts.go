package engine

import (
	"strings"

	"github.com/specloom/specloom/pkg/domain"
)

// resolveFacts derives the compact fact bundle for one raw node. It is a
// pure function of the node: same input, same bundle.
func resolveFacts(n *rawNode, maxTextLen int) domain.Facts {
	f := domain.Facts{
		NameTokens: nameTokens(n.Name),
		Visible:    n.visible(),
		Locked:     n.Locked,
	}

	f.Frame = resolveFrame(n)
	f.Layout = resolveLayoutFacts(n)
	f.Style = resolveStyle(n)

	if strings.EqualFold(n.Type, "TEXT") {
		f.Text = resolveText(n, maxTextLen)
	}
	f.Image = resolveImage(n)

	return f
}

func resolveFrame(n *rawNode) *domain.Frame {
	if n.X == nil && n.Y == nil && n.Width == nil && n.Height == nil && n.Rotation == nil {
		return nil
	}
	fr := &domain.Frame{}
	if n.X != nil {
		fr.X = *n.X
	}
	if n.Y != nil {
		fr.Y = *n.Y
	}
	if n.Width != nil {
		fr.Width = *n.Width
	}
	if n.Height != nil {
		fr.Height = *n.Height
	}
	if n.Rotation != nil {
		fr.Rotation = *n.Rotation
	}
	return fr
}

func resolveLayoutFacts(n *rawNode) *domain.LayoutFacts {
	lf := domain.LayoutFacts{
		Mode:             strings.ToUpper(n.LayoutMode),
		Positioning:      strings.ToUpper(n.LayoutPositioning),
		SizingHorizontal: strings.ToUpper(n.LayoutSizingHorizontal),
		SizingVertical:   strings.ToUpper(n.LayoutSizingVertical),
		Align:            n.LayoutAlign,
		PrimaryAxisAlign: n.PrimaryAxisAlignItems,
		CounterAxisAlign: n.CounterAxisAlignItems,
		Wrap:             n.LayoutWrap,
	}
	if n.Constraints != nil {
		lf.Constraints = &domain.Constraints{
			Horizontal: strings.ToUpper(n.Constraints.Horizontal),
			Vertical:   strings.ToUpper(n.Constraints.Vertical),
		}
	}
	if n.LayoutGrow != nil {
		lf.Grow = *n.LayoutGrow
	}
	if n.ItemSpacing != nil {
		lf.ItemSpacing = *n.ItemSpacing
	}
	if n.PaddingLeft != nil {
		lf.PaddingLeft = *n.PaddingLeft
	}
	if n.PaddingRight != nil {
		lf.PaddingRight = *n.PaddingRight
	}
	if n.PaddingTop != nil {
		lf.PaddingTop = *n.PaddingTop
	}
	if n.PaddingBottom != nil {
		lf.PaddingBottom = *n.PaddingBottom
	}
	if lf == (domain.LayoutFacts{}) {
		return nil
	}
	out := lf
	return &out
}

func resolveStyle(n *rawNode) *domain.Style {
	st := domain.Style{}
	st.BackgroundColor = solidFill(n.Fills)
	st.Stroke = solidStroke(n)
	if n.CornerRadius != nil && *n.CornerRadius != 0 {
		st.CornerRadius = *n.CornerRadius
	}
	if n.Opacity != nil && *n.Opacity != 1 {
		st.Opacity = *n.Opacity
	}
	st.ClipsContent = n.ClipsContent
	st.Shadows = resolveShadows(n.Effects)

	if st.BackgroundColor == nil && st.Stroke == nil && st.CornerRadius == 0 &&
		st.Opacity == 0 && !st.ClipsContent && len(st.Shadows) == 0 {
		return nil
	}
	out := st
	return &out
}

// firstVisiblePaint picks the first visible paint of the wanted type.
func firstVisiblePaint(paints []rawPaint, paintType string) *rawPaint {
	for i := range paints {
		p := &paints[i]
		if p.Visible != nil && !*p.Visible {
			continue
		}
		if !strings.EqualFold(p.Type, paintType) {
			continue
		}
		return p
	}
	return nil
}

// colorRef prefers the variable (token) name over the raw hex value.
func colorRef(c *rawColor) *domain.ColorRef {
	if c == nil {
		return nil
	}
	ref := domain.ColorRef{
		Token:       strings.TrimSpace(c.ColorVariableName),
		FallbackHex: strings.TrimSpace(c.HexRGBA),
	}
	if ref.Token == "" && ref.FallbackHex == "" {
		return nil
	}
	return &ref
}

func solidFill(fills []rawPaint) *domain.Paint {
	p := firstVisiblePaint(fills, "SOLID")
	if p == nil {
		return nil
	}
	c := colorRef(p.Color)
	if c == nil {
		return nil
	}
	out := domain.Paint{Color: *c}
	if p.Opacity != nil && *p.Opacity != 1 {
		out.Opacity = *p.Opacity
	}
	return &out
}

func solidStroke(n *rawNode) *domain.Stroke {
	p := firstVisiblePaint(n.Strokes, "SOLID")
	if p == nil {
		return nil
	}
	c := colorRef(p.Color)
	if c == nil {
		return nil
	}
	out := domain.Stroke{Color: *c, Align: n.StrokeAlign}
	weight := n.StrokeWeight
	if weight == nil {
		weight = n.StrokeWidth
	}
	if weight != nil && *weight != 0 {
		out.Width = *weight
	}
	if p.Opacity != nil && *p.Opacity != 1 {
		out.Opacity = *p.Opacity
	}
	return &out
}

func resolveShadows(effects []rawEffect) []domain.Shadow {
	var out []domain.Shadow
	for i := range effects {
		eff := &effects[i]
		if eff.Visible != nil && !*eff.Visible {
			continue
		}
		t := strings.ToUpper(eff.Type)
		if t != "DROP_SHADOW" && t != "INNER_SHADOW" {
			continue
		}
		sh := domain.Shadow{Type: t, Color: colorRef(eff.Color)}
		if eff.Offset != nil {
			sh.Offset = &domain.Offset{X: eff.Offset.X, Y: eff.Offset.Y}
		}
		if eff.Radius != nil {
			sh.Radius = *eff.Radius
		}
		if eff.Spread != nil {
			sh.Spread = *eff.Spread
		}
		if eff.Opacity != nil && *eff.Opacity != 1 {
			sh.Opacity = *eff.Opacity
		}
		out = append(out, sh)
	}
	return out
}

func resolveText(n *rawNode, maxTextLen int) *domain.TextFacts {
	tf := domain.TextFacts{}

	chars := n.Characters
	if chars == "" {
		chars = n.Text
	}
	if chars != "" {
		if maxTextLen >= 0 && len(chars) > maxTextLen {
			tf.Characters = chars[:maxTextLen] + "..."
			tf.Truncated = true
		} else {
			tf.Characters = chars
		}
	}

	tf.Font = resolveFont(n)

	// Text fills encode the glyph color.
	if fill := solidFill(n.Fills); fill != nil {
		c := fill.Color
		tf.Color = &c
	}

	if tf == (domain.TextFacts{}) {
		return nil
	}
	out := tf
	return &out
}

func resolveFont(n *rawNode) *domain.FontRef {
	token := strings.TrimSpace(n.TextVariableName)
	if token == "" {
		token = strings.TrimSpace(n.TextStyleVariableName)
	}

	fb := domain.FontFallback{Name: strings.TrimSpace(n.FontName)}
	if n.FontSize != nil {
		fb.Size = *n.FontSize
	}
	if n.Style != nil {
		if fb.Name == "" {
			v := strings.TrimSpace(n.Style.FontPostScriptName)
			if v == "" {
				v = strings.TrimSpace(n.Style.FontFamily)
			}
			fb.Name = v
		}
		if fb.Size == 0 && n.Style.FontSize != nil {
			fb.Size = *n.Style.FontSize
		}
		if n.Style.FontWeight != nil {
			fb.Weight = *n.Style.FontWeight
		}
	}

	ref := domain.FontRef{Token: token}
	if fb != (domain.FontFallback{}) {
		ref.Fallback = &fb
	}
	if ref.Token == "" && ref.Fallback == nil {
		return nil
	}
	return &ref
}

func resolveImage(n *rawNode) *domain.ImageFacts {
	paint := firstVisiblePaint(n.Fills, "IMAGE")
	hash := ""
	if paint != nil {
		hash = paint.ImageHash
		if hash == "" {
			hash = paint.ImageRef
		}
	}
	if hash == "" {
		hash = n.ImageHash
	}
	if hash == "" {
		hash = n.ImageRef
	}
	if paint == nil && hash == "" {
		return nil
	}

	out := domain.ImageFacts{Hash: hash}
	if paint != nil {
		out.ScaleMode = paint.ScaleMode
		if paint.Opacity != nil && *paint.Opacity != 1 {
			out.Opacity = *paint.Opacity
		}
	}
	if out == (domain.ImageFacts{}) {
		return nil
	}
	return &out
}
