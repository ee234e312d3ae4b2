package scene

// PainterOption is a functional option for configuring a Painter.
type PainterOption func(p *painterImpl)

// WithBrush sets the initial brush type.
func WithBrush(b BrushType) PainterOption {
	return func(p *painterImpl) {
		p.brush = b
	}
}

// WithBrushColor sets the initial brush color.
//
// Parameters:
//   - r, g, b, a: the normalized RGBA color
//
// Returns:
//   - PainterOption: option function to apply
func WithBrushColor(r, g, b, a float32) PainterOption {
	return func(p *painterImpl) {
		p.color = [4]float32{r, g, b, a}
	}
}

// WithBrushSize sets the initial brush size.
func WithBrushSize(size float32) PainterOption {
	return func(p *painterImpl) {
		p.size = size
	}
}

// WithSegments sets the initial circle segment count.
func WithSegments(n int) PainterOption {
	return func(p *painterImpl) {
		p.segments = n
	}
}

// WithFillGap starts the painter with fill-gap enabled.
func WithFillGap(on bool) PainterOption {
	return func(p *painterImpl) {
		p.fillGap = on
	}
}
