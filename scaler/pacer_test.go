// SPDX-License-Identifier: Unlicense OR MIT

package scaler

import (
	"testing"
	"time"
)

func TestFramePacerFeedsScalerWindow(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true, TargetFPS: 60})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pacer := NewFramePacer(s)

	if s.window.count != 0 {
		t.Fatalf("window.count = %d, want 0 before any frame", s.window.count)
	}

	pacer.MarkSubmit()
	time.Sleep(time.Millisecond)
	pacer.MarkPresent()

	if s.window.count != 1 {
		t.Fatalf("window.count = %d, want 1 after one submit/present cycle", s.window.count)
	}
	if s.window.samples[0] <= 0 {
		t.Fatalf("recorded latency = %v, want > 0", s.window.samples[0])
	}
}

func TestFramePacerPresentWithoutSubmitIsNoop(t *testing.T) {
	dev := newFakeDevice()
	s, err := New(dev, 800, 600, Config{Enabled: true, TargetFPS: 60})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pacer := NewFramePacer(s)
	pacer.MarkPresent()
	if s.window.count != 0 {
		t.Fatalf("window.count = %d, want 0 when MarkPresent is called without a prior MarkSubmit", s.window.count)
	}
}
