package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("paint"),
		WithSize(400, 400),
		WithMinSize(100, 50),
		WithMaxSize(1600, 0),
		WithResizable(false),
	)

	assert.Equal(t, "paint", w.title)
	assert.Equal(t, 400, w.Width())
	assert.Equal(t, 400, w.Height())
	assert.Equal(t, [4]int{100, 50, 1600, 0}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.False(t, w.resizable)

	d := newEngineWindow(WithSize(0, 300))
	assert.Equal(t, 800, d.Width(), "a non-positive size keeps the default")
	assert.Equal(t, 600, d.Height())
	assert.True(t, d.resizable)
}

func TestSetSizeNotifiesResize(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	calls := 0
	w.SetResizeCallback(func(width, height int) {
		got = [2]int{width, height}
		calls++
	})

	w.setSize(1024, 768)
	assert.Equal(t, [2]int{1024, 768}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())

	w.setSize(0, 0)
	assert.Equal(t, 2, calls, "minimizing is still reported")
	assert.Equal(t, 0, w.Width())
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)

	updates := 0
	w.SetUpdateCallback(func() { updates++ })
	w.ProcessMessages()
	assert.Zero(t, updates, "the loop does not run without a platform window")

	w.RequestClose()
	assert.True(t, w.closeRequested)
}
