package camera

import (
	"sync"

	"github.com/Carmen-Shannon/blocky-world/common"
)

// DefaultDragSensitivity converts drag pixels into rotation degrees.
const DefaultDragSensitivity float32 = 0.5

// Action identifies a discrete camera operation bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionMoveForward
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionPanLeft
	ActionPanRight
)

// defaultKeyBindings maps W/S/A/D to dolly and Q/E to pan.
func defaultKeyBindings() map[uint32]Action {
	return map[uint32]Action{
		common.KeyW: ActionMoveForward,
		common.KeyS: ActionMoveBackward,
		common.KeyA: ActionMoveLeft,
		common.KeyD: ActionMoveRight,
		common.KeyQ: ActionPanLeft,
		common.KeyE: ActionPanRight,
	}
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	camera      Camera
	bindings    map[uint32]Action
	sensitivity float32

	dragging     bool
	lastX, lastY int32
}

// CameraController translates raw keyboard and pointer events into Camera operations.
// Keys trigger dolly/pan steps; a drag rotates the camera by the pointer delta scaled by the sensitivity.
type CameraController interface {
	// Camera returns the controlled camera.
	Camera() Camera

	// HandleKeyDown applies the action bound to keyCode, if any.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is bound to a camera action
	//   - error: the camera error if the action produced a degenerate basis
	HandleKeyDown(keyCode uint32) (bool, error)

	// BeginDrag starts a look-around drag at the given pointer position.
	//
	// Parameters:
	//   - x, y: pointer position in window pixels
	BeginDrag(x, y int32)

	// Drag rotates the camera by the delta from the previous pointer position.
	// Horizontal motion calls RotateHorizontally(-dx*sensitivity), vertical motion RotateVertically(-dy*sensitivity).
	// Does nothing unless a drag is in progress.
	//
	// Parameters:
	//   - x, y: pointer position in window pixels
	//
	// Returns:
	//   - bool: true if the camera was rotated
	//   - error: the camera error if a rotation produced a degenerate basis
	Drag(x, y int32) (bool, error)

	// EndDrag finishes the current drag.
	EndDrag()

	// Dragging reports whether a drag is in progress.
	Dragging() bool

	// Sensitivity returns the drag sensitivity in degrees per pixel.
	Sensitivity() float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam with the default W/S/A/D/Q/E bindings
// and a drag sensitivity of 0.5 degrees per pixel.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		camera:      cam,
		bindings:    defaultKeyBindings(),
		sensitivity: DefaultDragSensitivity,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) HandleKeyDown(keyCode uint32) (bool, error) {
	cc.mu.Lock()
	action, ok := cc.bindings[keyCode]
	cc.mu.Unlock()
	if !ok || action == ActionNone {
		return false, nil
	}

	switch action {
	case ActionMoveForward:
		return true, cc.camera.MoveForward()
	case ActionMoveBackward:
		return true, cc.camera.MoveBackward()
	case ActionMoveLeft:
		return true, cc.camera.MoveLeft()
	case ActionMoveRight:
		return true, cc.camera.MoveRight()
	case ActionPanLeft:
		return true, cc.camera.PanLeft()
	case ActionPanRight:
		return true, cc.camera.PanRight()
	}
	return false, nil
}

func (cc *cameraControllerImpl) BeginDrag(x, y int32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) Drag(x, y int32) (bool, error) {
	cc.mu.Lock()
	if !cc.dragging {
		cc.mu.Unlock()
		return false, nil
	}
	dx := float32(x - cc.lastX)
	dy := float32(y - cc.lastY)
	cc.lastX, cc.lastY = x, y
	sensitivity := cc.sensitivity
	cc.mu.Unlock()

	if dx == 0 && dy == 0 {
		return false, nil
	}
	if err := cc.camera.RotateHorizontally(-dx * sensitivity); err != nil {
		return false, err
	}
	if err := cc.camera.RotateVertically(-dy * sensitivity); err != nil {
		return true, err
	}
	return true, nil
}

func (cc *cameraControllerImpl) EndDrag() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.sensitivity
}
