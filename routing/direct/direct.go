// Package direct provides the in-process endpoint component (scheme
// "direct:"). A producer sends into the endpoint and the bound consumer's
// processor runs synchronously on the sender's goroutine, so dispatch
// errors surface directly to the sender.
package direct

import (
	"context"
	"fmt"
	"sync"

	"github.com/timothysteffens/ignite/routing"
)

type Component struct{}

func (Component) CreateEndpoint(uri string) (routing.Endpoint, error) {
	return &Endpoint{uri: uri}, nil
}

type Endpoint struct {
	uri string

	mu       sync.RWMutex
	running  bool
	consumer *consumer
}

func (e *Endpoint) URI() string { return e.uri }

func (e *Endpoint) Start() error {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	return nil
}

func (e *Endpoint) Stop() error {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	return nil
}

func (e *Endpoint) CreateConsumer(p routing.Processor) (routing.Consumer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.consumer != nil {
		return nil, fmt.Errorf("direct: endpoint %q already has a consumer", e.uri)
	}
	c := &consumer{ep: e, proc: p}
	e.consumer = c
	return c, nil
}

// Send dispatches one message to the endpoint's consumer and returns
// whatever its processor returned.
func (e *Endpoint) Send(ctx context.Context, msg *routing.Message) error {
	e.mu.RLock()
	running := e.running
	c := e.consumer
	e.mu.RUnlock()

	if !running {
		return fmt.Errorf("direct: endpoint %q is not started", e.uri)
	}
	if c == nil || !c.started() {
		return fmt.Errorf("direct: no active consumer on endpoint %q", e.uri)
	}
	return c.proc.Process(ctx, msg)
}

type consumer struct {
	ep   *Endpoint
	proc routing.Processor

	mu      sync.Mutex
	running bool
}

func (c *consumer) Start() error {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	return nil
}

// Stop detaches the consumer from its endpoint so a later
// CreateConsumer can bind a fresh one.
func (c *consumer) Stop() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.ep.mu.Lock()
	if c.ep.consumer == c {
		c.ep.consumer = nil
	}
	c.ep.mu.Unlock()
	return nil
}

func (c *consumer) started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func init() {
	routing.RegisterComponent("direct", Component{})
}
