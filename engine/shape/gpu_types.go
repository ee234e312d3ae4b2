package shape

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUVertexSource is the WGSL VertexInput struct matching the interleaved Bytes layout (32 bytes per vertex).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUPositionSource is the WGSL PositionInput struct matching the positions-only Bytes layout.
//
//go:embed assets/position.wgsl
var GPUPositionSource string

const (
	// VertexStride is the size of one interleaved vertex: position (12), uv (8), normal (12).
	VertexStride = 32
	// PositionStride is the size of one positions-only vertex.
	PositionStride = 12
)

// Stride returns the per-vertex byte size of the packed geometry.
func (g Geometry) Stride() int {
	if g.PositionsOnly {
		return PositionStride
	}
	return VertexStride
}

// Bytes packs the vertices as little-endian float32 in the layout of the WGSL vertex input structs.
//
// Returns:
//   - []byte: len(Vertices) * Stride() bytes ready for GPU upload
func (g Geometry) Bytes() []byte {
	stride := g.Stride()
	buf := make([]byte, len(g.Vertices)*stride)
	for i, v := range g.Vertices {
		off := i * stride
		putFloat(buf[off:], v.Position.X)
		putFloat(buf[off+4:], v.Position.Y)
		putFloat(buf[off+8:], v.Position.Z)
		if g.PositionsOnly {
			continue
		}
		putFloat(buf[off+12:], v.UV[0])
		putFloat(buf[off+16:], v.UV[1])
		putFloat(buf[off+20:], v.Normal.X)
		putFloat(buf[off+24:], v.Normal.Y)
		putFloat(buf[off+28:], v.Normal.Z)
	}
	return buf
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(f))
}
