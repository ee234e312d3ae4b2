// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture unit pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte

	// Width is the width of the texture in pixels.
	Width uint32

	// Height is the height of the texture in pixels.
	Height uint32
}

// Empty reports whether the staging data holds no pixels.
func (t TextureStagingData) Empty() bool {
	return t.Width == 0 || t.Height == 0 || len(t.Pixels) == 0
}

// NewTextureStagingData converts any image into tightly packed RGBA staging data.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - TextureStagingData: the RGBA pixels and dimensions of img
func NewTextureStagingData(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// SolidTexture returns a 1x1 texture of a single RGBA color.
// Texture units are bound to one of these until their image arrives.
func SolidTexture(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{r, g, b, a},
		Width:  1,
		Height: 1,
	}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering and repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode

	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode

	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode

	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// ImportedTexture is an image source for a texture unit, either raw encoded bytes or a file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "block", "sky").
	Name string

	// Path is the file path of the image (used when Data is empty).
	Path string

	// Data contains the raw encoded image bytes.
	Data []byte
}

// Decode decodes the texture into an image.
// Uses the embedded Data bytes when present, otherwise loads from Path on disk.
// Supports every format registered with the image package (PNG and JPEG are always registered).
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - image.Image: the decoded image
//   - error: error if the texture has no source or decoding fails
func (t *ImportedTexture) Decode() (image.Image, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}

	switch {
	case len(t.Data) > 0:
		img, _, err := image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode texture %s: %w", t.Name, err)
		}
		return img, nil
	case t.Path != "":
		file, err := os.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open texture file %s: %w", t.Path, err)
		}
		defer file.Close()
		img, _, err := image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("texture %s has neither data nor path", t.Name)
	}
}
