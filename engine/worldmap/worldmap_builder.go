package worldmap

import "math/rand/v2"

// GeneratorOption is a functional option for configuring a Generator.
type GeneratorOption func(*generatorImpl)

// WithSize sets the grid edge length.
//
// Parameters:
//   - n: number of rows and columns
//
// Returns:
//   - GeneratorOption: a function that sets the grid size
func WithSize(n int) GeneratorOption {
	return func(g *generatorImpl) {
		g.size = n
	}
}

// WithSeed seeds the generator deterministically. A zero seed falls back to the wall clock.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - GeneratorOption: a function that seeds the generator
func WithSeed(seed uint64) GeneratorOption {
	return func(g *generatorImpl) {
		g.rng = rand.New(newSource(seed))
	}
}

// WithSource draws heights from src instead of a PCG source.
//
// Parameters:
//   - src: the random source
//
// Returns:
//   - GeneratorOption: a function that sets the random source
func WithSource(src rand.Source) GeneratorOption {
	return func(g *generatorImpl) {
		if src != nil {
			g.rng = rand.New(src)
		}
	}
}
