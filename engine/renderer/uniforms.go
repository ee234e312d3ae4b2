package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/blocky-world/common"
	"github.com/Carmen-Shannon/blocky-world/engine/renderer/shader"
)

// uniformAlignment is the WebGPU default minUniformBufferOffsetAlignment; every per-draw snapshot starts on it.
const uniformAlignment = 256

// uniformState is the CPU copy of the uniform block. Setters write straight into the packed bytes at the offsets
// reflected from the shader, so a snapshot is a single copy.
type uniformState struct {
	block shader.UniformBlock
	data  []byte
}

func newUniformState(block shader.UniformBlock) *uniformState {
	u := &uniformState{
		block: block,
		data:  make([]byte, block.Size),
	}
	identity := common.Identity4()
	for _, slot := range []UniformSlot{SlotModelMatrix, SlotGlobalRotateMatrix, SlotViewMatrix, SlotProjectionMatrix} {
		u.setFloats(slot, identity[:])
	}
	return u
}

// stride returns the distance between two snapshots in the ring.
func (u *uniformState) stride() uint64 {
	return alignUp(uint64(len(u.data)), uniformAlignment)
}

// field returns the byte window of a slot, or nil when the slot is absent or smaller than want bytes.
func (u *uniformState) field(slot UniformSlot, want uint64) []byte {
	f, ok := u.block.Field(string(slot))
	if !ok || f.Size < want {
		return nil
	}
	return u.data[f.Offset : f.Offset+want]
}

func (u *uniformState) setFloats(slot UniformSlot, values []float32) {
	dst := u.field(slot, uint64(len(values))*4)
	if dst == nil {
		return
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func (u *uniformState) setUint32(slot UniformSlot, v uint32) {
	dst := u.field(slot, 4)
	if dst == nil {
		return
	}
	binary.LittleEndian.PutUint32(dst, v)
}

// snapshot copies the current values into dst, which must be at least len(u.data) long.
func (u *uniformState) snapshot(dst []byte) {
	copy(dst, u.data)
}

func alignUp(value, alignment uint64) uint64 {
	return (value + alignment - 1) / alignment * alignment
}
