// Package worldmap generates the stacked-block height grid the scene is built from.
package worldmap

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultSize is the grid edge length of the reference scene.
	DefaultSize = 8
	// MinHeight is the lowest stack height of a border cell.
	MinHeight = 1
	// MaxHeight is the highest stack height of a border cell.
	MaxHeight = 10
)

// ErrInvalidSize is returned when the requested grid size is smaller than one cell.
var ErrInvalidSize = errors.New("world map size must be at least 1")

// Map is an immutable N×N grid of stack heights. Border cells hold a height in [MinHeight, MaxHeight];
// interior cells are always 0.
type Map struct {
	size  int
	cells [][]int
}

// Size returns the grid edge length.
func (m *Map) Size() int {
	return m.size
}

// Height returns the stack height at (row, col), or 0 outside the grid.
func (m *Map) Height(row, col int) int {
	if row < 0 || col < 0 || row >= m.size || col >= m.size {
		return 0
	}
	return m.cells[row][col]
}

// IsBorder reports whether (row, col) lies on the outer ring of the grid.
func (m *Map) IsBorder(row, col int) bool {
	return row == 0 || col == 0 || row == m.size-1 || col == m.size-1
}

// BorderCount returns the number of cells on the outer ring.
func (m *Map) BorderCount() int {
	if m.size == 1 {
		return 1
	}
	return 4*m.size - 4
}

// Cells returns a deep copy of the grid, indexed [row][col].
func (m *Map) Cells() [][]int {
	out := make([][]int, m.size)
	for i, row := range m.cells {
		out[i] = append([]int(nil), row...)
	}
	return out
}

type generatorImpl struct {
	mu *sync.Mutex

	size int
	rng  *rand.Rand
}

// Generator produces world maps from a random source it owns.
// Successive Generate calls are independent draws; only Reseed makes a later grid repeat an earlier one.
type Generator interface {
	// Generate draws a new grid.
	//
	// Returns:
	//   - *Map: the generated grid
	//   - error: ErrInvalidSize if the configured size is below 1
	Generate() (*Map, error)

	// Reseed replaces the random source with one derived from seed.
	//
	// Parameters:
	//   - seed: the new seed
	Reseed(seed uint64)

	// Size returns the configured grid edge length.
	Size() int
}

var _ Generator = &generatorImpl{}

// NewGenerator creates a Generator for DefaultSize grids seeded from the wall clock.
//
// Parameters:
//   - options: functional options to configure the generator
//
// Returns:
//   - Generator: the configured generator
func NewGenerator(options ...GeneratorOption) Generator {
	g := &generatorImpl{
		mu:   &sync.Mutex{},
		size: DefaultSize,
	}
	for _, option := range options {
		option(g)
	}
	if g.rng == nil {
		g.rng = rand.New(newSource(0))
	}
	return g
}

func (g *generatorImpl) Generate() (*Map, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, g.size)
	}

	m := &Map{size: g.size, cells: make([][]int, g.size)}
	for row := range g.size {
		m.cells[row] = make([]int, g.size)
		for col := range g.size {
			if m.IsBorder(row, col) {
				m.cells[row][col] = MinHeight + g.rng.IntN(MaxHeight-MinHeight+1)
			}
		}
	}
	return m, nil
}

func (g *generatorImpl) Reseed(seed uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng = rand.New(newSource(seed))
}

func (g *generatorImpl) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.size
}

// newSource returns a PCG source for seed, or a wall-clock seeded one when seed is 0.
func newSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
