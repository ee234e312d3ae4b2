package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer"
	"github.com/Carmen-Shannon/blocky-world/engine/shape"
)

// ErrEmptySurface is returned by Click when the surface has no area to map the pointer into.
var ErrEmptySurface = errors.New("surface has zero size")

// BrushType selects the shape stamped by a click in paint mode.
type BrushType int

const (
	BrushPoint BrushType = iota
	BrushTriangle
	BrushCircle
)

func (b BrushType) String() string {
	switch b {
	case BrushPoint:
		return "point"
	case BrushTriangle:
		return "triangle"
	case BrushCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// DefaultBrushSize is the initial brush size slider value.
const DefaultBrushSize float32 = 5

// Stroke is one stored paint shape with the color it was stamped in.
type Stroke struct {
	Shape shape.Shape
	Color [4]float32
}

// painterImpl is the implementation of the Painter interface.
type painterImpl struct {
	mu *sync.Mutex

	brush    BrushType
	color    [4]float32
	size     float32
	segments int
	fillGap  bool

	last    *[2]float32
	strokes []Stroke
}

// Painter is the legacy 2D paint mode: every click stamps a point, triangle or circle in clip space, optionally
// joined to the previous click by a line, and every stored stroke is redrawn each frame.
type Painter interface {
	// Brush returns the current brush type.
	Brush() BrushType

	// SetBrush sets the brush type.
	SetBrush(b BrushType)

	// Color returns the brush color.
	Color() [4]float32

	// SetColor sets the brush color.
	SetColor(r, g, b, a float32)

	// Size returns the brush size.
	Size() float32

	// SetSize sets the brush size.
	SetSize(size float32)

	// Segments returns the circle segment count.
	Segments() int

	// SetSegments sets the circle segment count.
	SetSegments(n int)

	// FillGap reports whether consecutive clicks are joined by a line.
	FillGap() bool

	// SetFillGap enables or disables joining consecutive clicks. Disabling it forgets the previous click.
	SetFillGap(on bool)

	// ToggleFillGap flips fill-gap and returns the new value. Turning it off forgets the previous click.
	ToggleFillGap() bool

	// Click stamps the brush at a window pixel position.
	//
	// Parameters:
	//   - x: the pointer x in pixels from the left edge
	//   - y: the pointer y in pixels from the top edge
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: ErrEmptySurface if width or height is not positive
	Click(x, y float32, width, height int) error

	// EndStroke forgets the previous click so the next one starts a new line.
	EndStroke()

	// Strokes returns a copy of every stored stroke in draw order.
	Strokes() []Stroke

	// Clear removes every stroke.
	Clear()

	// HandleKey applies the paint mode keys: 1/2/3 select a brush, C clears and F toggles fill-gap.
	//
	// Returns:
	//   - bool: true if the key was bound
	HandleKey(keyCode uint32) bool

	// Render draws every stroke with identity transforms in one frame. Consecutive strokes of one color share a draw.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: a renderer error; the frame is still ended and presented
	Render(r renderer.Renderer) error
}

var _ Painter = &painterImpl{}

// NewPainter creates a painter with a white point brush of DefaultBrushSize and shape.DefaultCircleSegments.
//
// Parameters:
//   - options: variadic list of PainterOption functions
//
// Returns:
//   - Painter: the new painter
func NewPainter(options ...PainterOption) Painter {
	p := &painterImpl{
		mu:       &sync.Mutex{},
		brush:    BrushPoint,
		color:    [4]float32{1, 1, 1, 1},
		size:     DefaultBrushSize,
		segments: shape.DefaultCircleSegments,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// ClipCoordinates converts a window pixel position into clip space with +y up.
//
// Parameters:
//   - x, y: the pointer position in pixels from the top-left corner
//   - width, height: the surface size in pixels
//
// Returns:
//   - [2]float32: the clip-space position
//   - error: ErrEmptySurface if width or height is not positive
func ClipCoordinates(x, y float32, width, height int) ([2]float32, error) {
	if width <= 0 || height <= 0 {
		return [2]float32{}, fmt.Errorf("%w: %dx%d", ErrEmptySurface, width, height)
	}
	hw := float32(width) / 2
	hh := float32(height) / 2
	return [2]float32{(x - hw) / hw, (hh - y) / hh}, nil
}

func (p *painterImpl) Brush() BrushType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.brush
}

func (p *painterImpl) SetBrush(b BrushType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.brush = b
}

func (p *painterImpl) Color() [4]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.color
}

func (p *painterImpl) SetColor(r, g, b, a float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.color = [4]float32{r, g, b, a}
}

func (p *painterImpl) Size() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

func (p *painterImpl) SetSize(size float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = size
}

func (p *painterImpl) Segments() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.segments
}

func (p *painterImpl) SetSegments(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.segments = n
}

func (p *painterImpl) FillGap() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fillGap
}

func (p *painterImpl) SetFillGap(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillGap = on
	if !on {
		p.last = nil
	}
}

func (p *painterImpl) ToggleFillGap() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillGap = !p.fillGap
	if !p.fillGap {
		p.last = nil
	}
	return p.fillGap
}

func (p *painterImpl) Click(x, y float32, width, height int) error {
	pos, err := ClipCoordinates(x, y, width, height)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fillGap {
		if p.last != nil {
			p.strokes = append(p.strokes, Stroke{
				Shape: shape.Line{From: *p.last, To: pos, Width: p.size},
				Color: p.color,
			})
		}
		p.last = &pos
	}

	var s shape.Shape
	switch p.brush {
	case BrushTriangle:
		s = shape.Triangle{Center: pos, Size: p.size}
	case BrushCircle:
		s = shape.Circle{Center: pos, Size: p.size, Segments: p.segments}
	default:
		s = shape.Point{Center: pos, Size: p.size}
	}
	p.strokes = append(p.strokes, Stroke{Shape: s, Color: p.color})
	return nil
}

func (p *painterImpl) EndStroke() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = nil
}

func (p *painterImpl) Strokes() []Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.strokes)
}

func (p *painterImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = nil
	p.last = nil
}

func (p *painterImpl) HandleKey(keyCode uint32) bool {
	switch keyCode {
	case common.Key1:
		p.SetBrush(BrushPoint)
	case common.Key2:
		p.SetBrush(BrushTriangle)
	case common.Key3:
		p.SetBrush(BrushCircle)
	case common.KeyC:
		p.Clear()
	case common.KeyF:
		p.ToggleFillGap()
	default:
		return false
	}
	return true
}

func (p *painterImpl) Render(r renderer.Renderer) error {
	strokes := p.Strokes()

	if err := r.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	identity := common.Identity4()
	r.SetMatrix(renderer.SlotProjectionMatrix, identity)
	r.SetMatrix(renderer.SlotViewMatrix, identity)
	r.SetMatrix(renderer.SlotGlobalRotateMatrix, identity)
	r.SetMatrix(renderer.SlotModelMatrix, identity)
	r.SetBool(renderer.SlotLightingEnabled, false)
	r.SetInt(renderer.SlotWhichTexture, shape.TextureSolidColor.Code())

	var err error
	for _, run := range colorRuns(strokes) {
		r.SetVector4(renderer.SlotFragColor, run.color)
		if err = r.Draw(run.geometry); err != nil {
			break
		}
	}
	r.EndFrame()
	r.Present()
	return err
}

// colorRun is the merged geometry of consecutive strokes sharing one color.
type colorRun struct {
	color    [4]float32
	geometry shape.Geometry
}

// colorRuns merges consecutive same-color strokes into one draw each, keeping stamp order so later strokes
// still paint over earlier ones.
func colorRuns(strokes []Stroke) []colorRun {
	var runs []colorRun
	for _, s := range strokes {
		g := s.Shape.Geometry()
		if len(g.Vertices) == 0 {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].color == s.Color {
			runs[n-1].geometry.Vertices = append(runs[n-1].geometry.Vertices, g.Vertices...)
			continue
		}
		runs = append(runs, colorRun{
			color:    s.Color,
			geometry: shape.Geometry{Vertices: slices.Clone(g.Vertices), PositionsOnly: true},
		})
	}
	return runs
}
