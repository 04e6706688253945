package routing

import (
	"fmt"
	"strings"
	"sync"
)

// Status is the lifecycle state of a Context.
type Status int

const (
	Unstarted Status = iota
	Starting
	Started
	Stopping
	Stopped
)

func (s Status) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Starting:
		return "starting"
	case Started:
		return "started"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Context manages endpoints and their lifecycle. Implementations cache
// endpoints per URI, so resolving the same URI twice yields the same
// instance.
type Context interface {
	Service
	Status() Status
	Endpoint(uri string) (Endpoint, error)
	AddComponent(scheme string, c Component)
}

// DefaultContext is the stock Context. Components registered globally
// via RegisterComponent are visible to every DefaultContext; AddComponent
// overrides per instance.
type DefaultContext struct {
	mu         sync.Mutex
	status     Status
	components map[string]Component
	endpoints  map[string]Endpoint
}

func NewContext() *DefaultContext {
	return &DefaultContext{
		components: map[string]Component{},
		endpoints:  map[string]Endpoint{},
	}
}

func (c *DefaultContext) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *DefaultContext) AddComponent(scheme string, comp Component) {
	c.mu.Lock()
	c.components[scheme] = comp
	c.mu.Unlock()
}

// Endpoint resolves (and caches) the endpoint for the given URI. The
// scheme is everything before the first colon.
func (c *DefaultContext) Endpoint(uri string) (Endpoint, error) {
	scheme, _, ok := strings.Cut(uri, ":")
	if !ok || scheme == "" {
		return nil, &NoSuchEndpointError{URI: uri}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ep, ok := c.endpoints[uri]; ok {
		return ep, nil
	}
	comp, ok := c.components[scheme]
	if !ok {
		if comp, ok = lookupComponent(scheme); !ok {
			return nil, &NoSuchEndpointError{URI: uri}
		}
	}
	ep, err := comp.CreateEndpoint(uri)
	if err != nil {
		return nil, err
	}
	c.endpoints[uri] = ep
	return ep, nil
}

func (c *DefaultContext) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != Unstarted && c.status != Stopped {
		return fmt.Errorf("routing: cannot start context in state %s", c.status)
	}
	c.status = Started
	return nil
}

func (c *DefaultContext) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != Started {
		return fmt.Errorf("routing: cannot stop context in state %s", c.status)
	}
	c.status = Stopped
	return nil
}
