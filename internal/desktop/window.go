package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Capabilities reports what the platform gave us.
type Capabilities struct {
	// PointerLock is true when the cursor can be captured with raw,
	// unaccelerated motion for mouse look.
	PointerLock bool
}

func initWindow(width, height int, title string) (*glfw.Window, Capabilities, error) {
	var caps Capabilities
	if err := glfw.Init(); err != nil {
		return nil, caps, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, caps, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		caps.PointerLock = window.GetInputMode(glfw.CursorMode) == glfw.CursorDisabled
	}
	return window, caps, nil
}
