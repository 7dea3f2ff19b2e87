package city

// Key is a logical control. The frontend maps physical keys onto these.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyJump
	KeyInteract
	KeySetSunny
	KeySetRain
	KeySetSnow
	keyCount
)

var keyNames = [keyCount]string{
	"forward", "back", "left", "right", "jump", "interact", "sunny", "rain", "snow",
}

func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// KeyState is the set of keys held this frame.
type KeyState map[Key]bool

// Input is what the core consumes each frame.
type Input struct {
	Keys KeyState
	// Pressed holds keys that went down this frame. World.Frame fills it
	// from Keys; callers stepping manually set it themselves.
	Pressed KeyState
	// Mouse look deltas in pixels since the last frame.
	LookDX, LookDY float64
}

func (in Input) Down(k Key) bool { return in.Keys[k] }

func (in Input) JustPressed(k Key) bool { return in.Pressed[k] }

// Axis returns +1, -1 or 0 for a pair of opposing keys.
func (in Input) Axis(pos, neg Key) float64 {
	v := 0.0
	if in.Keys[pos] {
		v++
	}
	if in.Keys[neg] {
		v--
	}
	return v
}

// EdgeTracker turns held keys into press edges.
type EdgeTracker struct {
	prev [keyCount]bool
}

// JustPressed reports whether k is down now and was up at the previous call
// for k.
func (et *EdgeTracker) JustPressed(keys KeyState, k Key) bool {
	if k >= keyCount {
		return false
	}
	down := keys[k]
	jp := down && !et.prev[k]
	et.prev[k] = down
	return jp
}

// Latch runs JustPressed for every key and returns the set that went down.
func (et *EdgeTracker) Latch(keys KeyState) KeyState {
	var out KeyState
	for k := Key(0); k < keyCount; k++ {
		if et.JustPressed(keys, k) {
			if out == nil {
				out = make(KeyState, 2)
			}
			out[k] = true
		}
	}
	return out
}
