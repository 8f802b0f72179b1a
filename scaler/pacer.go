// SPDX-License-Identifier: Unlicense OR MIT

package scaler

import "time"

// FramePacer records submit-to-present latency and feeds it into the
// owning Scaler's existing 60-sample frame-time window, per
// native/src/optimize/frame_pacing.c: it is not a separate subsystem,
// it shares the adaptive loop rather than duplicating a ring of its
// own.
type FramePacer struct {
	scaler   *Scaler
	submitAt time.Time
}

// NewFramePacer returns a pacer feeding s's adaptive loop.
func NewFramePacer(s *Scaler) *FramePacer {
	return &FramePacer{scaler: s}
}

// MarkSubmit records the moment the frame's commands were submitted to
// the driver.
func (p *FramePacer) MarkSubmit() {
	p.submitAt = time.Now()
}

// MarkPresent records the moment the frame was presented and feeds the
// elapsed submit-to-present latency into the scaler's frame-time window,
// exactly as a direct RecordFrameTime(ms) call would. A call with no
// preceding MarkSubmit is a no-op.
func (p *FramePacer) MarkPresent() {
	if p.submitAt.IsZero() {
		return
	}
	elapsed := time.Since(p.submitAt)
	p.scaler.RecordFrameTime(float32(elapsed.Microseconds()) / 1000)
	p.submitAt = time.Time{}
}
