package city

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "citysim/internal/city"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics counts simulation events. Uses the global OTel meter, which is a
// no-op unless the host installs a provider.
type Metrics struct {
	crashes metric.Int64Counter
	entries metric.Int64Counter
	exits   metric.Int64Counter
	pickups metric.Int64Counter
	steps   metric.Int64Counter
}

func NewMetrics() (*Metrics, error) {
	m := meter()
	mt := &Metrics{}
	var err error

	mt.crashes, err = m.Int64Counter("citysim.crashes",
		metric.WithDescription("Driven vehicle collisions"))
	if err != nil {
		return nil, fmt.Errorf("creating crashes counter: %w", err)
	}
	mt.entries, err = m.Int64Counter("citysim.vehicle.entries",
		metric.WithDescription("Times the player entered a vehicle"))
	if err != nil {
		return nil, fmt.Errorf("creating entries counter: %w", err)
	}
	mt.exits, err = m.Int64Counter("citysim.vehicle.exits",
		metric.WithDescription("Times the player left a vehicle"))
	if err != nil {
		return nil, fmt.Errorf("creating exits counter: %w", err)
	}
	mt.pickups, err = m.Int64Counter("citysim.pickups",
		metric.WithDescription("Collectibles picked up"))
	if err != nil {
		return nil, fmt.Errorf("creating pickups counter: %w", err)
	}
	mt.steps, err = m.Int64Counter("citysim.sim.steps",
		metric.WithDescription("Fixed simulation steps run"))
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}
	return mt, nil
}

// Bind subscribes the counters to the bus.
func (mt *Metrics) Bind(bus *EventBus, w *World) {
	ctx := context.Background()
	bus.Subscribe(EventCrash, func(Event) {
		mt.crashes.Add(ctx, 1, metric.WithAttributes(attribute.String("weather", w.Weather.Mode().String())))
	})
	bus.Subscribe(EventVehicleEntered, func(Event) {
		role := "traffic"
		if ref, ok := w.Player.Vehicle(); ok {
			role = ref.Role.String()
		}
		mt.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	})
	bus.Subscribe(EventVehicleExited, func(Event) {
		mt.exits.Add(ctx, 1)
	})
	bus.Subscribe(EventPickup, func(e Event) {
		mt.pickups.Add(ctx, int64(e.Data))
	})
}

func (mt *Metrics) Step() {
	if mt == nil {
		return
	}
	mt.steps.Add(context.Background(), 1)
}
