// Package routing holds the endpoint/consumer abstractions the bridge
// consumes. Components register per URI scheme and produce endpoints;
// endpoints produce consumers bound to a message processor.
package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one inbound unit of work delivered by a consumer.
type Message struct {
	ID         uuid.UUID
	Body       []byte
	Headers    map[string]string
	ReceivedAt time.Time

	// Reply is populated by a response processor on request/reply
	// endpoints; consumers that support replies read it back after
	// dispatch.
	Reply []byte
}

func NewMessage(body []byte) *Message {
	return &Message{
		ID:         uuid.New(),
		Body:       body,
		ReceivedAt: time.Now(),
	}
}

func (m *Message) Header(name string) string {
	return m.Headers[name]
}

func (m *Message) SetHeader(name, value string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string, 1)
	}
	m.Headers[name] = value
}

// Processor handles one message. Implementations must tolerate being
// called from whatever goroutines the endpoint's consumer uses.
type Processor interface {
	Process(ctx context.Context, msg *Message) error
}

type ProcessorFunc func(ctx context.Context, msg *Message) error

func (f ProcessorFunc) Process(ctx context.Context, msg *Message) error { return f(ctx, msg) }

// Endpoint is an addressable message source resolved from a URI.
type Endpoint interface {
	Service
	URI() string
	CreateConsumer(p Processor) (Consumer, error)
}

// Consumer is a runtime-managed subscription on an endpoint. Messages
// flow to its processor only between Start and Stop.
type Consumer interface {
	Service
}

// Component creates endpoints for one URI scheme.
type Component interface {
	CreateEndpoint(uri string) (Endpoint, error)
}

// NoSuchEndpointError reports a URI no registered component could serve.
type NoSuchEndpointError struct {
	URI string
}

func (e *NoSuchEndpointError) Error() string {
	return fmt.Sprintf("routing: no endpoint found for URI %q", e.URI)
}

/*──────── component registry ───────*/

var registry = map[string]Component{}

// RegisterComponent is called from each component's init() or from main.
func RegisterComponent(scheme string, c Component) {
	registry[scheme] = c
}

func lookupComponent(scheme string) (Component, bool) {
	c, ok := registry[scheme]
	return c, ok
}
