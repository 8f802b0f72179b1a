// SPDX-License-Identifier: Unlicense OR MIT

package batch

import (
	"testing"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// recordingDevice counts every draw-issuing call it receives, without
// implementing MultiDrawer, per spec.md §8 boundary scenario 2's
// "0 [saved] otherwise" branch.
type recordingDevice struct {
	draws int
}

func (d *recordingDevice) UseProgram(p glc.Program)                 {}
func (d *recordingDevice) BindVertexArray(va glc.VertexArray)       {}
func (d *recordingDevice) ActiveTexture(texture glc.Enum)           {}
func (d *recordingDevice) BindTexture(target glc.Enum, t glc.Texture) {}
func (d *recordingDevice) DrawArrays(mode glc.Enum, first, count int) {
	d.draws++
}
func (d *recordingDevice) DrawArraysInstanced(mode glc.Enum, first, count, instances int) {
	d.draws++
}
func (d *recordingDevice) DrawElements(mode glc.Enum, count int, ty glc.Enum, offset int) {
	d.draws++
}
func (d *recordingDevice) DrawElementsInstanced(mode glc.Enum, count int, ty glc.Enum, offset, instances int) {
	d.draws++
}

// multiDrawDevice additionally implements MultiDrawer, so the batcher
// takes the real coalesced path.
type multiDrawDevice struct {
	recordingDevice
	multiDrawCalls int
}

func (d *multiDrawDevice) MultiDrawArrays(mode glc.Enum, firsts, counts []int32) {
	d.multiDrawCalls++
	d.draws++
}

func (d *multiDrawDevice) MultiDrawElements(mode glc.Enum, counts []int32, ty glc.Enum, offsets []int32) {
	d.multiDrawCalls++
	d.draws++
}

func eightArrayCommands() []Command {
	key := Key{
		Program:     glc.Program{V: 1},
		VertexArray: glc.VertexArray{V: 1},
		Tex0:        glc.Texture{V: 1},
		Mode:        glc.TRIANGLES,
		StateHash:   42,
	}
	cmds := make([]Command, 8)
	for i := range cmds {
		cmds[i] = Command{Kind: KindArrays, Key: key, First: i * 3, Count: 3}
	}
	return cmds
}

// TestBatchEightDrawsCoalesceWithMultiDraw is spec.md §8's boundary
// scenario 2: eight draws sharing one batch key, multi-draw available.
func TestBatchEightDrawsCoalesceWithMultiDraw(t *testing.T) {
	dev := &multiDrawDevice{}
	b := New(dev, 4)
	b.BeginFrame()
	for _, cmd := range eightArrayCommands() {
		b.Submit(cmd)
	}
	b.EndFrame()

	stats := b.Stats()
	if stats.Submitted != 8 {
		t.Fatalf("Submitted = %d, want 8", stats.Submitted)
	}
	if stats.BatchesCreated != 1 {
		t.Fatalf("BatchesCreated = %d, want 1", stats.BatchesCreated)
	}
	if stats.Executed != 1 {
		t.Fatalf("Executed = %d, want 1", stats.Executed)
	}
	if stats.Saved != 7 {
		t.Fatalf("Saved = %d, want 7", stats.Saved)
	}
	if dev.multiDrawCalls != 1 {
		t.Fatalf("multiDrawCalls = %d, want 1", dev.multiDrawCalls)
	}
}

// TestBatchEightDrawsWithoutMultiDraw is the same scenario's "0
// otherwise" branch: grouping still happens but savings are honest.
func TestBatchEightDrawsWithoutMultiDraw(t *testing.T) {
	dev := &recordingDevice{}
	b := New(dev, 4)
	b.BeginFrame()
	for _, cmd := range eightArrayCommands() {
		b.Submit(cmd)
	}
	b.EndFrame()

	stats := b.Stats()
	if stats.Submitted != 8 {
		t.Fatalf("Submitted = %d, want 8", stats.Submitted)
	}
	if stats.BatchesCreated != 1 {
		t.Fatalf("BatchesCreated = %d, want 1", stats.BatchesCreated)
	}
	if stats.Executed != 8 {
		t.Fatalf("Executed = %d, want 8", stats.Executed)
	}
	if stats.Saved != 0 {
		t.Fatalf("Saved = %d, want 0", stats.Saved)
	}
	if dev.draws != 8 {
		t.Fatalf("draws = %d, want 8", dev.draws)
	}
}

func TestBatchDifferentKeysFormSeparateBatches(t *testing.T) {
	dev := &multiDrawDevice{}
	b := New(dev, 16)
	b.BeginFrame()
	keyA := Key{Program: glc.Program{V: 1}, Mode: glc.TRIANGLES}
	keyB := Key{Program: glc.Program{V: 2}, Mode: glc.TRIANGLES}
	for i := 0; i < 3; i++ {
		b.Submit(Command{Kind: KindArrays, Key: keyA, First: i, Count: 1})
	}
	for i := 0; i < 3; i++ {
		b.Submit(Command{Kind: KindArrays, Key: keyB, First: i, Count: 1})
	}
	b.EndFrame()

	stats := b.Stats()
	if stats.BatchesCreated != 2 {
		t.Fatalf("BatchesCreated = %d, want 2", stats.BatchesCreated)
	}
	if stats.Executed != 2 {
		t.Fatalf("Executed = %d, want 2", stats.Executed)
	}
	if stats.Saved != 4 {
		t.Fatalf("Saved = %d, want 4", stats.Saved)
	}
}

// programTrackingDevice records the sequence of programs bound by
// applyState, so a test can tell whether each run's own key state was
// applied, rather than just counting draws.
type programTrackingDevice struct {
	multiDrawDevice
	boundPrograms []uint
}

func (d *programTrackingDevice) UseProgram(p glc.Program) {
	d.boundPrograms = append(d.boundPrograms, p.V)
}

// TestFlushDoesNotMergeHashCollidingDifferentKeys guards against
// grouping by keyHash alone: two commands with different Key values
// that happen to land on the same 64-bit hash (forced here by writing
// the queue directly, bypassing Submit's real hash()) must still form
// two separate runs, per spec.md §4.E's "equal key and equal kind"
// grouping rule — the hash is only a sort key, never the equality
// check itself.
func TestFlushDoesNotMergeHashCollidingDifferentKeys(t *testing.T) {
	dev := &programTrackingDevice{}
	b := New(dev, 16)
	b.BeginFrame()
	keyA := Key{Program: glc.Program{V: 1}, Mode: glc.TRIANGLES}
	keyB := Key{Program: glc.Program{V: 2}, Mode: glc.TRIANGLES}
	b.queue = append(b.queue,
		Command{Kind: KindArrays, Key: keyA, First: 0, Count: 1, keyHash: 7},
		Command{Kind: KindArrays, Key: keyB, First: 1, Count: 1, keyHash: 7},
	)
	b.Flush()

	if dev.draws != 2 {
		t.Fatalf("draws = %d, want 2", dev.draws)
	}
	if want := []uint{1, 2}; len(dev.boundPrograms) != len(want) || dev.boundPrograms[0] != want[0] || dev.boundPrograms[1] != want[1] {
		t.Fatalf("boundPrograms = %v, want %v (each run must apply its own key's state)", dev.boundPrograms, want)
	}
}

func TestBatchInstancedCommandsAreNeverBatched(t *testing.T) {
	dev := &multiDrawDevice{}
	b := New(dev, 16)
	b.BeginFrame()
	key := Key{Program: glc.Program{V: 1}, Mode: glc.TRIANGLES}
	for i := 0; i < 4; i++ {
		b.Submit(Command{Kind: KindArraysInstanced, Key: key, First: 0, Count: 3, InstanceCount: 10})
	}
	b.EndFrame()

	stats := b.Stats()
	if stats.BatchesCreated != 0 {
		t.Fatalf("BatchesCreated = %d, want 0 for instanced commands", stats.BatchesCreated)
	}
	if stats.Executed != 4 {
		t.Fatalf("Executed = %d, want 4", stats.Executed)
	}
	if stats.Saved != 0 {
		t.Fatalf("Saved = %d, want 0", stats.Saved)
	}
}

func TestBatchBelowMinBatchSizeEmitsIndividually(t *testing.T) {
	dev := &multiDrawDevice{}
	b := New(dev, 16)
	b.SetMinBatchSize(3)
	b.BeginFrame()
	key := Key{Program: glc.Program{V: 1}, Mode: glc.TRIANGLES}
	b.Submit(Command{Kind: KindArrays, Key: key, First: 0, Count: 3})
	b.Submit(Command{Kind: KindArrays, Key: key, First: 3, Count: 3})
	b.EndFrame()

	stats := b.Stats()
	if stats.BatchesCreated != 0 {
		t.Fatalf("BatchesCreated = %d, want 0 below min batch size", stats.BatchesCreated)
	}
	if stats.Executed != 2 {
		t.Fatalf("Executed = %d, want 2", stats.Executed)
	}
}

func TestBatchQueueOverflowFlushesEarly(t *testing.T) {
	dev := &multiDrawDevice{}
	b := New(dev, 1) // cap = 8
	b.BeginFrame()
	key := Key{Program: glc.Program{V: 1}, Mode: glc.TRIANGLES}
	for i := 0; i < 10; i++ {
		b.Submit(Command{Kind: KindArrays, Key: key, First: i, Count: 1})
	}
	stats := b.Stats()
	if stats.BatchesCreated == 0 {
		t.Fatalf("queue overflow should have triggered an early flush")
	}
	b.EndFrame()
	if b.Stats().Submitted != 10 {
		t.Fatalf("Submitted = %d, want 10", b.Stats().Submitted)
	}
}
