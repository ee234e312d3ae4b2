package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSensitivity sets the drag sensitivity.
//
// Parameters:
//   - degreesPerPixel: rotation in degrees applied per pixel of pointer motion
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithSensitivity(degreesPerPixel float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = degreesPerPixel
	}
}

// WithKeyBinding binds a key to a camera action, replacing any existing binding for that key.
// Binding ActionNone removes the key.
//
// Parameters:
//   - keyCode: the virtual key code
//   - action: the camera action to trigger
//
// Returns:
//   - CameraControllerOption: functional option to set the binding
func WithKeyBinding(keyCode uint32, action Action) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if action == ActionNone {
			delete(cc.bindings, keyCode)
			return
		}
		cc.bindings[keyCode] = action
	}
}
