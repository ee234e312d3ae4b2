package texture

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loaderImpl)

// WithWorkers sets the number of decode workers. Defaults to runtime.NumCPU()-1, at least 1.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxDimension sets the largest edge a decoded image keeps. Defaults to DefaultMaxDimension.
//
// Parameters:
//   - n: the edge limit in pixels; 0 disables resampling
//
// Returns:
//   - LoaderBuilderOption: a function that applies the dimension option to a loader
func WithMaxDimension(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.maxDimension = n
	}
}

// WithFlip sets whether decoded images are flipped vertically. Defaults to true.
func WithFlip(flip bool) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.flip = flip
	}
}

// WithResultBuffer sets how many finished loads can wait on the Results channel.
func WithResultBuffer(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n > 0 {
			l.bufferSize = n
		}
	}
}
