// SPDX-License-Identifier: Unlicense OR MIT

package bufferpool

import (
	"log"
	"time"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// fenceTimeout bounds the wait a Ring performs at BeginFrame before it
// gives up and proceeds anyway, per spec.md §4.C: "bounded timeout,
// e.g. one second; on timeout, log and proceed."
const fenceTimeout = time.Second

// Ring is a fixed three-way split streaming buffer used for per-frame
// transient vertex/index/uniform data. It is touched only by the
// rendering thread, so — unlike Pool — it carries no mutex, per spec.md
// §5: "the streaming ring does not require a lock because it is used
// only on the rendering thread."
type Ring struct {
	device     Device
	target     glc.Enum
	regionSize int

	buffer glc.Buffer
	mapped []byte

	frame  int
	offset int
	fences [3]glc.Sync
}

// NewRing creates a ring of 3*regionSize bytes bound to target.
func NewRing(device Device, target glc.Enum, regionSize int) *Ring {
	buf := device.CreateBuffer()
	total := regionSize * 3
	device.BindBuffer(target, buf)
	device.BufferData(target, make([]byte, total), glc.DYNAMIC_DRAW)
	mapped := device.MapBufferRange(target, 0, total, glc.MAP_WRITE_BIT|glc.MAP_PERSISTENT_BIT|glc.MAP_COHERENT_BIT)
	return &Ring{
		device:     device,
		target:     target,
		regionSize: regionSize,
		buffer:     buf,
		mapped:     mapped,
		frame:      -1, // BeginFrame's first call advances to region 0
	}
}

// Release destroys the backing buffer.
func (r *Ring) Release() {
	if r.mapped != nil {
		r.device.BindBuffer(r.target, r.buffer)
		r.device.UnmapBuffer(r.target)
	}
	for i, f := range r.fences {
		if f.V != 0 {
			r.device.DeleteSync(f)
			r.fences[i] = glc.Sync{}
		}
	}
	r.device.DeleteBuffer(r.buffer)
}

// BeginFrame advances the region counter modulo 3 and waits (bounded)
// on that region's fence before resetting the intra-frame offset, per
// spec.md §4.C.
func (r *Ring) BeginFrame() {
	r.frame = (r.frame + 1) % 3
	r.offset = 0
	f := r.fences[r.frame]
	if f.V == 0 {
		return
	}
	status := r.device.ClientWaitSync(f, 0, fenceTimeout)
	if status == glc.TIMEOUT_EXPIRED {
		log.Printf("bufferpool: streaming ring region %d fence wait timed out after %s, proceeding", r.frame, fenceTimeout)
	}
	r.device.DeleteSync(f)
	r.fences[r.frame] = glc.Sync{}
}

// StreamAlloc appends data within the current region, returning the
// region-relative byte offset it was written at. On overflow it logs
// and returns (0, false) without committing any bytes, per spec.md
// §4.C: "overflow returns sentinel and logs."
func (r *Ring) StreamAlloc(data []byte) (offset int, ok bool) {
	size := alignUp(len(data))
	if r.offset+size > r.regionSize {
		log.Printf("bufferpool: streaming ring overflow in region %d: requested %d bytes, %d remain", r.frame, len(data), r.regionSize-r.offset)
		return 0, false
	}
	regionBase := r.frame * r.regionSize
	if r.mapped != nil {
		copy(r.mapped[regionBase+r.offset:], data)
	} else {
		r.device.BindBuffer(r.target, r.buffer)
		r.device.BufferSubData(r.target, regionBase+r.offset, data)
	}
	offset = r.offset
	r.offset += size
	return offset, true
}

// RegionOffset returns the absolute buffer offset of the start of the
// region currently being written, so callers can turn a StreamAlloc
// offset into an absolute buffer offset for a draw call.
func (r *Ring) RegionOffset() int { return r.frame * r.regionSize }

// Buffer returns the backing GL buffer handle.
func (r *Ring) Buffer() glc.Buffer { return r.buffer }

// EndFrame inserts a fence for the region just written, so a future
// BeginFrame for the same region waits for the GPU to finish consuming
// it before the next overwrite.
func (r *Ring) EndFrame() {
	r.fences[r.frame] = r.device.FenceSync(glc.SYNC_GPU_COMMANDS_COMPLETE)
}
