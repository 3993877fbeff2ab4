// Package delivery holds the portal's inbound adapters.
package delivery

import "context"

// Delivery is a long-running inbound server.
type Delivery interface {
	Serve(ctx context.Context) error
}
