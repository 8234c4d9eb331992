// Package dispatch implements the Dispatcher: an ordered chain of
// ActionHandlers that translate Actions into mutations on a Context
// (spec §4.8, "Dispatcher"). Handlers never see raw key events.
package dispatch

import (
	"sqlcli/internal/action"
)

// Result is what an ActionHandler returns for an action it recognizes.
type Result int

const (
	NotHandled Result = iota
	Handled
	ActionError
)

// ActionHandler owns a subset of action.Kind values. Handle returns
// NotHandled to let the dispatcher try the next handler in the chain.
type ActionHandler interface {
	Handle(ctx Context, act action.Action) (Result, error)
}

// Dispatcher holds an ordered handler chain and a status line (spec
// §7: action errors "reported on the status line; state unchanged").
type Dispatcher struct {
	handlers []ActionHandler
	status   string
}

// New builds a Dispatcher with the standard handler order: Navigation,
// Column, Export, Yank, UI (spec §4.8).
func New() *Dispatcher {
	return &Dispatcher{
		handlers: []ActionHandler{
			NavigationHandler{},
			ColumnHandler{},
			ExportHandler{},
			YankHandler{},
			UIHandler{},
		},
	}
}

// Dispatch runs act through the handler chain in order, stopping at
// the first handler that claims it. An unclaimed action is silently
// ignored, matching §7's "unknown key in a mode is silently ignored".
func (d *Dispatcher) Dispatch(ctx Context, act action.Action) {
	for _, h := range d.handlers {
		result, err := h.Handle(ctx, act)
		switch result {
		case Handled:
			d.status = ""
			return
		case ActionError:
			if err != nil {
				d.status = err.Error()
			}
			return
		case NotHandled:
			continue
		}
	}
}

// Status returns the last reported action-error message, or "".
func (d *Dispatcher) Status() string { return d.status }
