package engine

import (
	"context"
	"fmt"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// Message is a command for the dispatcher. Each message type carries its own
// payload; components communicate only through these, never through shared
// mutable state or ambient events.
type Message interface {
	isMessage()
}

// FilterChanged carries the complete filter state. The view is recomputed
// from it in full, never from a diff.
type FilterChanged struct {
	State FilterState
}

// CurrencyChanged switches the display currency; the preference is persisted
// for the next session.
type CurrencyChanged struct {
	Code string
}

// ProviderLoadRequested asks for a provider's catalog to be loaded on demand.
// Completion merges the records and re-applies the latest filter state.
type ProviderLoadRequested struct {
	Provider schema.Provider
}

func (FilterChanged) isMessage()         {}
func (CurrencyChanged) isMessage()       {}
func (ProviderLoadRequested) isMessage() {}

// Dispatcher routes messages to one engine. Every Dispatch returns the view
// that results from handling the message.
type Dispatcher struct {
	engine *Engine
}

func NewDispatcher(engine *Engine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) ([]schema.CloudInstance, error) {
	switch m := msg.(type) {
	case FilterChanged:
		return d.engine.Apply(m.State), nil

	case CurrencyChanged:
		if err := d.engine.SetCurrency(m.Code); err != nil {
			return nil, err
		}

		return d.engine.Reapply(), nil

	case ProviderLoadRequested:
		if err := d.engine.Load(ctx, m.Provider); err != nil {
			return nil, err
		}

		// a load completing after a filter change re-filters with the
		// latest state, never rolls back
		return d.engine.Reapply(), nil

	default:
		return nil, fmt.Errorf("unknown message type %T", msg)
	}
}
