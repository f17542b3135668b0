package ui

import "github.com/hajimehoshi/ebiten/v2"

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
	setFullscreen        = ebiten.SetFullscreen
	isFullscreen         = ebiten.IsFullscreen
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
	}
}

// edges turns level-triggered key and mouse state into press events, one per
// physical press.
type edges struct {
	keys  map[ebiten.Key]bool
	mouse bool
}

func newEdges() *edges { return &edges{keys: make(map[ebiten.Key]bool)} }

// pressed reports whether k went down since the previous call for k.
func (e *edges) pressed(k ebiten.Key) bool {
	down := isKeyPressed(k)
	was := e.keys[k]
	e.keys[k] = down
	return down && !was
}

// clicked reports whether the left button went down since the previous call.
func (e *edges) clicked() bool {
	down := isMouseButtonPressed(ebiten.MouseButtonLeft)
	was := e.mouse
	e.mouse = down
	return down && !was
}
