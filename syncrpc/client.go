package syncrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/Keksclan/goNutHoard/retry"
)

// Queue is the durable pending-write state the sync routine drains. The
// interception layer never touches it directly; it only triggers the drain
// when the host delivers the sync-expenses tag.
type Queue interface {
	// Pending returns all expenses awaiting transmission.
	Pending(ctx context.Context) ([]Expense, error)

	// Ack removes the given expense IDs from the queue after the backend has
	// accepted them.
	Ack(ctx context.Context, ids []string) error
}

// Client transmits pending expenses to the sync backend. Unlike the caching
// strategies, the client retries: transmissions carry durable state and a
// transient outage must not lose the batch.
type Client struct {
	conn  grpc.ClientConnInterface
	queue Queue
	retry retry.Config
}

// NewClient creates a Client draining queue over conn, using the default
// retry policy.
func NewClient(conn grpc.ClientConnInterface, queue Queue) *Client {
	return &Client{
		conn:  conn,
		queue: queue,
		retry: retry.DefaultConfig(),
	}
}

// WithRetry overrides the retry policy.
func (c *Client) WithRetry(cfg retry.Config) *Client {
	c.retry = cfg
	return c
}

// SyncExpenses drains the queue and transmits the batch. An empty queue is a
// successful no-op. Acknowledgement only happens after the backend accepts
// the batch, so a failure leaves the queue intact for the next sync event.
func (c *Client) SyncExpenses(ctx context.Context) error {
	pending, err := c.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("syncrpc: read pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	req := &SyncRequest{Tag: "sync-expenses", Expenses: pending}
	resp, err := retry.Do(ctx, c.retry, func(ctx context.Context) (*SyncResponse, error) {
		out := new(SyncResponse)
		if err := c.conn.Invoke(ctx, fullMethod, req, out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("syncrpc: transmit %d expenses: %w", len(pending), err)
	}
	if resp.Accepted != len(pending) {
		return fmt.Errorf("syncrpc: backend accepted %d of %d expenses", resp.Accepted, len(pending))
	}

	ids := make([]string, len(pending))
	for i, e := range pending {
		ids[i] = e.ID
	}
	if err := c.queue.Ack(ctx, ids); err != nil {
		return fmt.Errorf("syncrpc: ack transmitted expenses: %w", err)
	}
	return nil
}
