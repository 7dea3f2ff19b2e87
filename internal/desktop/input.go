package desktop

import (
	"citysim/internal/city"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var keyBindings = map[city.Key][]glfw.Key{
	city.KeyForward:  {glfw.KeyW, glfw.KeyUp},
	city.KeyBack:     {glfw.KeyS, glfw.KeyDown},
	city.KeyLeft:     {glfw.KeyA, glfw.KeyLeft},
	city.KeyRight:    {glfw.KeyD, glfw.KeyRight},
	city.KeyJump:     {glfw.KeySpace},
	city.KeyInteract: {glfw.KeyE, glfw.KeyF},
	city.KeySetSunny: {glfw.Key1},
	city.KeySetRain:  {glfw.Key2},
	city.KeySetSnow:  {glfw.Key3},
}

// Input samples the window once per rendered frame. Edge detection happens
// in the world, so this only reports what is held and how far the mouse
// moved.
type Input struct {
	keys       city.KeyState
	prevX      float64
	prevY      float64
	haveCursor bool
}

func NewInput() *Input {
	return &Input{keys: make(city.KeyState, len(keyBindings))}
}

func (in *Input) Poll(window *glfw.Window) city.Input {
	clear(in.keys)
	for k, bound := range keyBindings {
		for _, gk := range bound {
			if window.GetKey(gk) == glfw.Press {
				in.keys[k] = true
				break
			}
		}
	}

	out := city.Input{Keys: in.keys}
	cx, cy := window.GetCursorPos()
	if in.haveCursor {
		out.LookDX = cx - in.prevX
		out.LookDY = cy - in.prevY
	}
	in.prevX, in.prevY = cx, cy
	in.haveCursor = true
	return out
}
