// Package texture decodes the images bound to the two texture units off the render goroutine.
package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/anthonynsimon/bild/transform"
	"github.com/fsnotify/fsnotify"
	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxDimension is the largest edge, in pixels, an image keeps after decoding.
	DefaultMaxDimension = 2048

	// Units is the number of texture units images can be loaded into.
	Units = 2
)

var (
	// ErrNotImage is reported for files whose content is not a recognized image.
	ErrNotImage = errors.New("not an image")

	// ErrUnsupportedFormat is reported for images in a format the loader does not decode.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidUnit is returned by Load for a unit outside [0, Units).
	ErrInvalidUnit = errors.New("invalid texture unit")

	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("texture loader is closed")
)

// supportedFormats lists the file extensions, as detected from content, the loader decodes.
var supportedFormats = []string{"png", "jpg", "bmp", "webp"}

// Result is one finished load. Err is set when the file could not be read or decoded; the unit then keeps whatever
// texture it had.
type Result struct {
	Unit int
	Path string
	Data common.TextureStagingData
	Err  error
}

// loaderImpl is the implementation of the Loader interface.
type loaderImpl struct {
	mu *sync.Mutex

	pool         worker.DynamicWorkerPool
	workers      int
	maxDimension int
	flip         bool
	bufferSize   int

	results   chan Result
	paths     map[int]string
	nextID    int
	done      chan struct{}
	closeOnce sync.Once
}

// Loader decodes image files into texture staging data on a worker pool.
//
// Results are delivered on a channel so GPU uploads stay on the goroutine that owns the renderer. A failed load is
// reported, never fatal: the unit keeps rendering with its previous texture.
type Loader interface {
	// Load queues a file for decoding into a texture unit. A leading ~ is expanded to the home directory.
	//
	// Parameters:
	//   - unit: the texture unit, 0 or 1
	//   - path: the image file
	//
	// Returns:
	//   - error: ErrInvalidUnit, or an error if the path could not be expanded
	Load(unit int, path string) error

	// Results returns the channel finished loads are delivered on.
	Results() <-chan Result

	// Paths returns the file last requested for each unit.
	Paths() map[int]string

	// Watch reloads a unit whenever its file is written or replaced, until ctx is done.
	// The watcher is running when Watch returns.
	//
	// Parameters:
	//   - ctx: cancels the watcher
	//
	// Returns:
	//   - error: an error if the file system watcher could not be created
	Watch(ctx context.Context) error

	// Close stops the decode workers. Loads still in flight are dropped instead of waiting for a reader.
	// Safe to call multiple times.
	Close()
}

var _ Loader = &loaderImpl{}

// NewLoader creates a loader with one decode worker per spare CPU.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		mu:           &sync.Mutex{},
		workers:      max(runtime.NumCPU()-1, 1),
		maxDimension: DefaultMaxDimension,
		flip:         true,
		bufferSize:   2 * Units,
		paths:        make(map[int]string),
		done:         make(chan struct{}),
	}
	for _, option := range options {
		option(l)
	}
	l.results = make(chan Result, l.bufferSize)
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loaderImpl) Load(unit int, path string) error {
	if unit < 0 || unit >= Units {
		return fmt.Errorf("%w: %d", ErrInvalidUnit, unit)
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand texture path %s: %w", path, err)
	}

	if l.closed() {
		return ErrClosed
	}

	l.mu.Lock()
	l.paths[unit] = expanded
	l.mu.Unlock()

	l.submit(unit, expanded)
	return nil
}

func (l *loaderImpl) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (l *loaderImpl) submit(unit int, path string) {
	if l.closed() {
		return
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	maxDimension, flip := l.maxDimension, l.flip
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			data, err := decodeFile(path, maxDimension, flip)
			select {
			case l.results <- Result{Unit: unit, Path: path, Data: data, Err: err}:
			case <-l.done:
			}
			return nil, nil
		},
	})
}

func (l *loaderImpl) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.pool.Stop()
	})
}

func (l *loaderImpl) Results() <-chan Result {
	return l.results
}

func (l *loaderImpl) Paths() map[int]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[int]string, len(l.paths))
	for unit, path := range l.paths {
		out[unit] = path
	}
	return out
}

func (l *loaderImpl) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create texture watcher: %w", err)
	}

	// Directories are watched rather than files so editors that replace a file on save are still seen.
	var dirs []string
	for _, path := range l.Paths() {
		dir := filepath.Dir(path)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				for unit, path := range l.Paths() {
					if filepath.Clean(event.Name) == filepath.Clean(path) {
						log.Printf("[Texture] Reloading unit %d from %s", unit, path)
						l.submit(unit, path)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Texture] Watcher error: %v", err)
			}
		}
	}()
	return nil
}

func decodeFile(path string, maxDimension int, flip bool) (common.TextureStagingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to read texture %s: %w", path, err)
	}
	out, err := Decode(filepath.Base(path), data, maxDimension, flip)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("texture %s: %w", path, err)
	}
	return out, nil
}

// Decode turns encoded image bytes into RGBA staging data.
//
// The format is detected from content, not from the name. Images larger than maxDimension on either edge are
// resampled to fit while keeping their aspect ratio. With flip set, rows are reversed so the first row is the bottom
// of the image, matching texture coordinates with v pointing up.
//
// Parameters:
//   - name: a label used in error messages
//   - data: the encoded image
//   - maxDimension: the largest allowed edge in pixels; values below 1 disable resampling
//   - flip: whether to flip the image vertically
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: ErrNotImage, ErrUnsupportedFormat or a decode error
func Decode(name string, data []byte, maxDimension int, flip bool) (common.TextureStagingData, error) {
	if !filetype.IsImage(data) {
		return common.TextureStagingData{}, ErrNotImage
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if !slices.Contains(supportedFormats, kind.Extension) {
		return common.TextureStagingData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	src := &common.ImportedTexture{Name: name, Data: data}
	img, err := src.Decode()
	if err != nil {
		return common.TextureStagingData{}, err
	}

	img = fit(img, maxDimension)
	if flip {
		img = transform.FlipV(img)
	}
	return common.NewTextureStagingData(img), nil
}

// fit downsamples img so neither edge exceeds maxDimension.
func fit(img image.Image, maxDimension int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDimension < 1 || (w <= maxDimension && h <= maxDimension) {
		return img
	}
	if w >= h {
		h = max(1, h*maxDimension/w)
		w = maxDimension
	} else {
		w = max(1, w*maxDimension/h)
		h = maxDimension
	}
	return transform.Resize(img, w, h, transform.Linear)
}
