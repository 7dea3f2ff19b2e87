package city

import "github.com/go-gl/mathgl/mgl64"

type EventType int

const (
	EventCrash EventType = iota
	EventVehicleEntered
	EventVehicleExited
	EventWeatherChanged
	EventPickup
)

func (t EventType) String() string {
	switch t {
	case EventCrash:
		return "crash"
	case EventVehicleEntered:
		return "vehicle_entered"
	case EventVehicleExited:
		return "vehicle_exited"
	case EventWeatherChanged:
		return "weather_changed"
	case EventPickup:
		return "pickup"
	}
	return "unknown"
}

type Event struct {
	Type EventType
	Pos  mgl64.Vec3
	Data int // payload: score delta, weather mode, vehicle index
}

type EventHandler func(Event)

// EventBus delivers events synchronously, in subscription order, on the
// emitting goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
