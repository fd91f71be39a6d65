// Package events maps the host environment's event-listener model onto an
// explicit Go interface: one method per event kind, plus a dispatcher that
// routes event values to the matching method.
package events

import (
	"context"
	"fmt"
	"net/http"
)

// SyncExpensesTag is the deferred-sync tag the worker acts on. Any other tag
// is acknowledged and ignored.
const SyncExpensesTag = "sync-expenses"

// Kind identifies one of the host event kinds a worker listens for.
type Kind int

const (
	Install Kind = iota
	Activate
	Fetch
	Sync
	Push
	NotificationClick
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case Install:
		return "install"
	case Activate:
		return "activate"
	case Fetch:
		return "fetch"
	case Sync:
		return "sync"
	case Push:
		return "push"
	case NotificationClick:
		return "notificationclick"
	default:
		return "unknown"
	}
}

// Event is one occurrence delivered by the host. Only the fields relevant to
// its Kind are populated.
type Event struct {
	Kind    Kind
	Request *http.Request // Fetch
	Tag     string        // Sync
	Payload []byte        // Push
	Action  string        // NotificationClick
}

// Handler receives host events, one method per kind. Implementations must
// tolerate their triggering event being abandoned by the caller; only
// background work they schedule themselves is guaranteed to persist.
type Handler interface {
	OnInstall(ctx context.Context) error
	OnActivate(ctx context.Context) error
	OnFetch(ctx context.Context, req *http.Request) (*http.Response, error)
	OnSync(ctx context.Context, tag string) error
	OnPush(ctx context.Context, payload []byte) error
	OnNotificationClick(ctx context.Context, action string) error
}

// Dispatcher routes host events to a Handler.
type Dispatcher struct {
	handler Handler
}

// NewDispatcher creates a Dispatcher for h.
func NewDispatcher(h Handler) *Dispatcher {
	return &Dispatcher{handler: h}
}

// Dispatch invokes the handler method matching ev.Kind. The response is only
// non-nil for Fetch events.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*http.Response, error) {
	switch ev.Kind {
	case Install:
		return nil, d.handler.OnInstall(ctx)
	case Activate:
		return nil, d.handler.OnActivate(ctx)
	case Fetch:
		return d.handler.OnFetch(ctx, ev.Request)
	case Sync:
		return nil, d.handler.OnSync(ctx, ev.Tag)
	case Push:
		return nil, d.handler.OnPush(ctx, ev.Payload)
	case NotificationClick:
		return nil, d.handler.OnNotificationClick(ctx, ev.Action)
	default:
		return nil, fmt.Errorf("events: unknown event kind %d", ev.Kind)
	}
}
