package gonuthoard

import (
	"context"
	"net/http"

	"github.com/Keksclan/goNutHoard/events"
)

// The Worker is the events.Handler for its host environment: install and
// activate map to the lifecycle methods, fetch to the round tripper, and the
// remaining events forward to the configured collaborators.
var _ events.Handler = (*Worker)(nil)

// OnInstall precaches the manifest.
func (w *Worker) OnInstall(ctx context.Context) error {
	return w.Install(ctx)
}

// OnActivate purges stale generations and claims clients.
func (w *Worker) OnActivate(ctx context.Context) error {
	return w.Activate(ctx)
}

// OnFetch serves an intercepted request.
func (w *Worker) OnFetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	return w.RoundTrip(req.WithContext(ctx))
}

// OnSync triggers the external synchronization routine for the
// sync-expenses tag. Other tags are acknowledged and ignored.
func (w *Worker) OnSync(ctx context.Context, tag string) error {
	if tag != events.SyncExpensesTag || w.syncer == nil {
		return nil
	}
	return w.syncer.SyncExpenses(ctx)
}

// OnPush forwards the payload to the notifier, if any.
func (w *Worker) OnPush(ctx context.Context, payload []byte) error {
	if w.notifier == nil {
		return nil
	}
	return w.notifier.Push(ctx, payload)
}

// OnNotificationClick forwards the action to the notifier, if any.
func (w *Worker) OnNotificationClick(ctx context.Context, action string) error {
	if w.notifier == nil {
		return nil
	}
	return w.notifier.NotificationClick(ctx, action)
}
