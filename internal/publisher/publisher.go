// Package publisher defines the outbound event contract. The pipeline emits
// one run summary per crawl so downstream consumers can react to fresh data.
package publisher

import "context"

// Publisher delivers a payload to the configured destination and returns the
// message id assigned by the transport.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}
