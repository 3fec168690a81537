// Package input provides the rotation state fed into the frame
// composer. A rotator owns a yaw/pitch pair (phi, theta) that is
// refreshed once per frame by Poll; between polls the angles are
// stable, so a frame always composes against a consistent snapshot.
package input

import (
	"sync"

	"github.com/charmbracelet/harmonica"
)

// Rotator exposes two scalar angles updated by polling input once per
// frame. Poll must run before the frame's composition; Phi and Theta
// return the snapshot taken by the last Poll.
type Rotator interface {
	Poll()
	Phi() float64
	Theta() float64
}

// axis tracks position and velocity for one rotation axis. Velocity
// decays toward zero through a critically damped spring, giving
// rotations a smooth stop instead of a hard cut.
type axis struct {
	pos      float64
	vel      float64
	velAccel float64 // spring's internal velocity while easing vel to 0
	spring   harmonica.Spring
}

func newAxis(fps int) axis {
	// Frequency 4.0 is a moderate decay speed, damping 1.0 is
	// critically damped (no overshoot).
	return axis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *axis) step() {
	a.pos += a.vel
	a.vel, a.velAccel = a.spring.Update(a.vel, a.velAccel, 0)
}

// rotator is the shared mechanism behind both rotator kinds: event
// handlers (possibly on another goroutine) accumulate pending
// impulses, Poll consumes them and advances the springs.
type rotator struct {
	mu           sync.Mutex
	pendingPhi   float64
	pendingTheta float64

	phi   axis
	theta axis
	fps   int
}

func newRotator(fps int) rotator {
	return rotator{
		phi:   newAxis(fps),
		theta: newAxis(fps),
		fps:   fps,
	}
}

// impulse queues angular velocity to be applied at the next Poll.
// Safe to call from any goroutine.
func (r *rotator) impulse(dphi, dtheta float64) {
	r.mu.Lock()
	r.pendingPhi += dphi
	r.pendingTheta += dtheta
	r.mu.Unlock()
}

// Poll consumes pending impulses and advances both axes. Called once
// per frame, before composition.
func (r *rotator) Poll() {
	r.mu.Lock()
	dphi, dtheta := r.pendingPhi, r.pendingTheta
	r.pendingPhi, r.pendingTheta = 0, 0
	r.mu.Unlock()

	r.phi.vel += dphi
	r.theta.vel += dtheta
	r.phi.step()
	r.theta.step()
}

// Phi returns the yaw angle in radians as of the last Poll.
func (r *rotator) Phi() float64 { return r.phi.pos }

// Theta returns the pitch angle in radians as of the last Poll.
func (r *rotator) Theta() float64 { return r.theta.pos }

// Reset zeroes the angles and pending input.
func (r *rotator) Reset() {
	r.mu.Lock()
	r.pendingPhi, r.pendingTheta = 0, 0
	r.mu.Unlock()
	r.phi = newAxis(r.fps)
	r.theta = newAxis(r.fps)
}

// KeyRotator derives its angles from held keys: left/right steer phi,
// up/down steer theta.
type KeyRotator struct {
	rotator

	// Step is the angular velocity added per key event, radians.
	Step float64
}

// NewKeyRotator creates a keyboard-driven rotator tuned for the given
// target frame rate.
func NewKeyRotator(fps int) *KeyRotator {
	return &KeyRotator{
		rotator: newRotator(fps),
		Step:    0.05,
	}
}

// Key event feeds. dx/dy are -1, 0 or +1 per event.
func (r *KeyRotator) Steer(dx, dy int) {
	r.impulse(float64(dx)*r.Step, float64(dy)*r.Step)
}

// MouseRotator derives its angles from mouse drag deltas.
type MouseRotator struct {
	rotator

	// Sensitivity converts cell-sized drag deltas to radians of
	// angular velocity.
	Sensitivity float64
}

// NewMouseRotator creates a mouse-driven rotator tuned for the given
// target frame rate.
func NewMouseRotator(fps int) *MouseRotator {
	return &MouseRotator{
		rotator:     newRotator(fps),
		Sensitivity: 0.03,
	}
}

// Drag feeds a drag delta in terminal cells: horizontal movement
// steers phi, vertical movement steers theta.
func (r *MouseRotator) Drag(dx, dy int) {
	r.impulse(float64(dx)*r.Sensitivity, float64(dy)*r.Sensitivity)
}
