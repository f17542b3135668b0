package ui

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// fakeInput drives the package input hooks from a test.
type fakeInput struct {
	x, y    int
	pressed bool
	keys    map[ebiten.Key]bool
}

func newFakeInput(t *testing.T) *fakeInput {
	t.Helper()
	in := &fakeInput{keys: make(map[ebiten.Key]bool)}
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(b ebiten.MouseButton) bool { return b == ebiten.MouseButtonLeft && in.pressed },
		func(k ebiten.Key) bool { return in.keys[k] },
	)
	t.Cleanup(restore)
	return in
}

// tap presses k for one update and releases it on the next.
func (in *fakeInput) tap(g *Game, k ebiten.Key) {
	in.keys[k] = true
	_ = g.Update()
	in.keys[k] = false
	_ = g.Update()
}

// click presses the left button at (x, y) for one update.
func (in *fakeInput) click(update func(), x, y int) {
	in.x, in.y = x, y
	in.pressed = true
	update()
	in.pressed = false
	update()
}
