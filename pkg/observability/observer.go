package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ajitpratap0/objectpool/pkg/pool"
)

// MeterObserver is a pool.Observer that records events as OpenTelemetry
// counters with a "pool" attribute.
type MeterObserver struct {
	events metric.Int64Counter
}

var _ pool.Observer = (*MeterObserver)(nil)

// NewMeterObserver creates the counter on meter. A nil meter uses the
// global meter provider.
func NewMeterObserver(meter metric.Meter) (*MeterObserver, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}
	events, err := meter.Int64Counter("objectpool.events",
		metric.WithDescription("Pool events by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create events counter: %w", err)
	}
	return &MeterObserver{events: events}, nil
}

func (m *MeterObserver) add(name, event string) {
	m.events.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("pool", name),
		attribute.String("event", event),
	))
}

func (m *MeterObserver) OnCreate(name string)    { m.add(name, "create") }
func (m *MeterObserver) OnTake(name string)      { m.add(name, "take") }
func (m *MeterObserver) OnPut(name string)       { m.add(name, "put") }
func (m *MeterObserver) OnDiscard(name string)   { m.add(name, "discard") }
func (m *MeterObserver) OnReclaimed(name string) { m.add(name, "reclaimed") }
func (m *MeterObserver) OnDegrade(name string)   { m.add(name, "degrade") }
func (m *MeterObserver) OnMiss(name string)      { m.add(name, "miss") }
