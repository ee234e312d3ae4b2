package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII), move forward
	KeyA     = 65  // A key (ASCII), move left
	KeyS     = 83  // S key (ASCII), move backward
	KeyD     = 68  // D key (ASCII), move right
	KeyQ     = 81  // Q key (ASCII), pan left
	KeyE     = 69  // E key (ASCII), pan right
	KeyC     = 67  // C key (ASCII), clear the paint canvas
	KeyF     = 70  // F key (ASCII), toggle paint fill-gap
	KeyL     = 76  // L key (ASCII), toggle lighting
	KeyN     = 78  // N key (ASCII), toggle normal visualization
	KeyP     = 80  // P key (ASCII), switch between the scene and the paint canvas
	KeyEsc   = 256 // Escape key (GLFW)
	KeySpace = 32  // Spacebar (ASCII)

	Key1 = 49 // 1 key (ASCII), point brush
	Key2 = 50 // 2 key (ASCII), triangle brush
	Key3 = 51 // 3 key (ASCII), circle brush
)
