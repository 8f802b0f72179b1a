// SPDX-License-Identifier: Unlicense OR MIT

package gl

import glc "github.com/kestrelgl/velocitygl/internal/gl"

// The methods in this file make *Backend satisfy batch.Device
// structurally: the state-affecting calls (program/VAO/texture bind)
// route through the redundant-call filter in State so a batch that
// reapplies the same key after a foreign draw still benefits from the
// filter, while the draw calls themselves go straight to Funcs since
// draws are never redundant-filtered (spec.md §3's pipeline mirror
// tracks bind/enable state, not draw issuance).

// ActiveTexture records the active unit and forwards to State, so a
// following BindTexture call lands on the right unit.
func (b *Backend) ActiveTexture(texture glc.Enum) {
	b.activeUnit = int(texture - glc.TEXTURE0)
	b.State.SetActiveTexture(b.activeUnit)
}

// BindTexture binds t to target on the unit ActiveTexture last
// selected.
func (b *Backend) BindTexture(target glc.Enum, t glc.Texture) {
	b.State.BindTexture(b.activeUnit, target, t)
}

// UseProgram and BindVertexArray forward to State's redundant-call
// filter.
func (b *Backend) UseProgram(p glc.Program)           { b.State.UseProgram(p) }
func (b *Backend) BindVertexArray(va glc.VertexArray) { b.State.BindVertexArray(va) }

// DrawArrays, DrawArraysInstanced, DrawElements and
// DrawElementsInstanced issue directly on the raw function table.
func (b *Backend) DrawArrays(mode glc.Enum, first, count int) {
	b.Funcs.DrawArrays(mode, first, count)
}

func (b *Backend) DrawArraysInstanced(mode glc.Enum, first, count, instances int) {
	b.Funcs.DrawArraysInstanced(mode, first, count, instances)
}

func (b *Backend) DrawElements(mode glc.Enum, count int, ty glc.Enum, offset int) {
	b.Funcs.DrawElements(mode, count, ty, offset)
}

func (b *Backend) DrawElementsInstanced(mode glc.Enum, count int, ty glc.Enum, offset, instances int) {
	b.Funcs.DrawElementsInstanced(mode, count, ty, offset, instances)
}
