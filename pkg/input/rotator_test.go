package input

import (
	"math"
	"testing"
)

var (
	_ Rotator = (*KeyRotator)(nil)
	_ Rotator = (*MouseRotator)(nil)
)

func TestKeyRotatorStartsAtZero(t *testing.T) {
	r := NewKeyRotator(60)
	if r.Phi() != 0 || r.Theta() != 0 {
		t.Errorf("fresh rotator angles = (%v, %v), want (0, 0)", r.Phi(), r.Theta())
	}
}

func TestKeyRotatorSteer(t *testing.T) {
	r := NewKeyRotator(60)
	r.Steer(1, 0)
	r.Poll()

	if r.Phi() <= 0 {
		t.Errorf("phi after right steer = %v, want > 0", r.Phi())
	}
	if r.Theta() != 0 {
		t.Errorf("theta after right steer = %v, want 0", r.Theta())
	}

	r.Steer(0, -1)
	r.Poll()
	if r.Theta() >= 0 {
		t.Errorf("theta after up steer = %v, want < 0", r.Theta())
	}
}

// Impulses must not leak into the angles until the next Poll: a frame
// reads a stable snapshot no matter what the event goroutine does.
func TestSnapshotStableBetweenPolls(t *testing.T) {
	r := NewMouseRotator(60)
	r.Drag(10, 4)
	r.Poll()

	phi, theta := r.Phi(), r.Theta()
	r.Drag(50, 50)
	r.Drag(-3, 8)

	if r.Phi() != phi || r.Theta() != theta {
		t.Errorf("angles changed without Poll: (%v, %v) -> (%v, %v)", phi, theta, r.Phi(), r.Theta())
	}

	r.Poll()
	if r.Phi() == phi {
		t.Error("Poll did not apply pending drag")
	}
}

func TestVelocityDecays(t *testing.T) {
	r := NewMouseRotator(60)
	r.Drag(20, 0)
	r.Poll()

	first := r.Phi()
	var prev, cur float64 = 0, first
	for range 300 {
		prev = cur
		r.Poll()
		cur = r.Phi()
	}

	// The spring eases velocity to zero: after plenty of idle polls
	// the angle must have settled.
	if delta := math.Abs(cur - prev); delta > 1e-6 {
		t.Errorf("angle still moving after decay, last step %v", delta)
	}
	if cur <= first {
		t.Errorf("angle did not coast forward: first %v, settled %v", first, cur)
	}
}

func TestReset(t *testing.T) {
	r := NewKeyRotator(60)
	r.Steer(1, 1)
	r.Poll()
	r.Steer(1, 1) // pending at reset time

	r.Reset()
	r.Poll()

	if r.Phi() != 0 || r.Theta() != 0 {
		t.Errorf("angles after reset = (%v, %v), want (0, 0)", r.Phi(), r.Theta())
	}
}

func TestMouseSensitivity(t *testing.T) {
	slow := NewMouseRotator(60)
	fast := NewMouseRotator(60)
	fast.Sensitivity = slow.Sensitivity * 2

	slow.Drag(10, 0)
	fast.Drag(10, 0)
	slow.Poll()
	fast.Poll()

	if math.Abs(fast.Phi()-2*slow.Phi()) > 1e-12 {
		t.Errorf("doubled sensitivity: fast=%v, slow=%v", fast.Phi(), slow.Phi())
	}
}
