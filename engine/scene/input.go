package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/blocky-world/common"
)

// ErrUnknownControl is returned by ApplyControl for an id no control is registered under.
var ErrUnknownControl = errors.New("unknown control")

// Control ids understood by ApplyControl.
const (
	ControlLightX         = "light_x"
	ControlLightY         = "light_y"
	ControlLightZ         = "light_z"
	ControlLightR         = "light_r"
	ControlLightG         = "light_g"
	ControlLightB         = "light_b"
	ControlAngle          = "angle"
	ControlToggleLighting = "toggle_lighting"
	ControlNormalsOn      = "normals_on"
	ControlNormalsOff     = "normals_off"
)

// sliderScale converts slider positions into world units and color channels.
const sliderScale = 100

// Control is one UI event: a slider move carries Value, a button click ignores it.
type Control struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// ControlIDs lists every id ApplyControl accepts.
var ControlIDs = []string{
	ControlLightX, ControlLightY, ControlLightZ,
	ControlLightR, ControlLightG, ControlLightB,
	ControlAngle,
	ControlToggleLighting, ControlNormalsOn, ControlNormalsOff,
}

func (s *sceneStateImpl) HandleKey(keyCode uint32) (bool, error) {
	handled, err := s.controller.HandleKeyDown(keyCode)
	if err != nil {
		return handled, err
	}
	if handled {
		s.RequestRedraw()
		return true, nil
	}

	switch keyCode {
	case common.KeyL:
		s.ToggleLighting()
	case common.KeyN:
		s.ToggleNormals()
	default:
		return false, nil
	}
	return true, nil
}

func (s *sceneStateImpl) BeginDrag(x, y int32) {
	s.controller.BeginDrag(x, y)
}

func (s *sceneStateImpl) Drag(x, y int32) error {
	moved, err := s.controller.Drag(x, y)
	if moved {
		s.RequestRedraw()
	}
	return err
}

func (s *sceneStateImpl) EndDrag() {
	s.controller.EndDrag()
}

func (s *sceneStateImpl) ApplyControl(c Control) error {
	v := float32(c.Value)

	var err error
	switch c.ID {
	case ControlLightX:
		err = s.light.SetPositionComponent(0, v/sliderScale)
	case ControlLightY:
		err = s.light.SetPositionComponent(1, v/sliderScale)
	case ControlLightZ:
		err = s.light.SetPositionComponent(2, v/sliderScale)
	case ControlLightR:
		err = s.light.SetColorComponent(0, v/sliderScale)
	case ControlLightG:
		err = s.light.SetColorComponent(1, v/sliderScale)
	case ControlLightB:
		err = s.light.SetColorComponent(2, v/sliderScale)
	case ControlAngle:
		s.SetAngle(v)
		return nil
	case ControlToggleLighting:
		s.ToggleLighting()
		return nil
	case ControlNormalsOn:
		s.SetNormalsOn(true)
		return nil
	case ControlNormalsOff:
		s.SetNormalsOn(false)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, c.ID)
	}
	if err != nil {
		return err
	}
	s.RequestRedraw()
	return nil
}
