// Package streamer bridges a routing endpoint to an ingestion sink: each
// inbound message is turned into key/value tuples by an extractor and
// forwarded, one sink call per message.
package streamer

import (
	"context"
	"strings"

	"github.com/timothysteffens/ignite/internal/logging"
	"github.com/timothysteffens/ignite/internal/telemetry"
	"github.com/timothysteffens/ignite/routing"
	"github.com/timothysteffens/ignite/sink"
)

// Streamer consumes messages from an endpoint and feeds extracted tuples
// into a sink. Configure the fields, then Start. Exactly one of the two
// extractors must be set.
//
// The streamer adds no synchronization of its own: Process runs on
// whatever goroutines the endpoint's consumer uses, and the sink is
// assumed safe for concurrent forwarding. Start and Stop are meant for a
// single controlling goroutine.
type Streamer[K comparable, V any] struct {
	// EndpointURI names the endpoint to consume from. Mandatory.
	EndpointURI string

	// Context is the routing context to resolve the endpoint through.
	// Left nil, a default one is created at Start and owned by the
	// streamer.
	Context routing.Context

	SingleTupleExtractor   SingleTupleExtractor[K, V]
	MultipleTupleExtractor MultipleTupleExtractor[K, V]

	// ResponseProcessor, if set, runs after each successful forward and
	// may populate a reply on the message.
	ResponseProcessor routing.Processor

	// Sink receives the extracted tuples. Mandatory.
	Sink sink.Sink[K, V]

	ownsContext bool
	endpoint    routing.Endpoint
	consumer    routing.Consumer
}

// Start validates the configuration, resolves the endpoint, creates a
// consumer bound to the streamer and starts context, endpoint and
// consumer as a group. A partial failure rolls the group back before the
// error is returned.
func (s *Streamer[K, V]) Start() error {
	if strings.TrimSpace(s.EndpointURI) == "" {
		return &ConfigError{Reason: "endpoint URI must be provided"}
	}
	if s.SingleTupleExtractor == nil && s.MultipleTupleExtractor == nil {
		return &ConfigError{Reason: "tuple extractor missing"}
	}
	if s.SingleTupleExtractor != nil && s.MultipleTupleExtractor != nil {
		return &ConfigError{Reason: "cannot provide both single and multiple tuple extractor"}
	}
	if s.Sink == nil {
		return &ConfigError{Reason: "sink must be provided"}
	}

	if s.Context == nil {
		s.Context = routing.NewContext()
		s.ownsContext = true
	}

	switch s.Context.Status() {
	case routing.Started, routing.Starting:
		return &StartError{Reason: "routing context already started or starting"}
	}

	ep, err := s.Context.Endpoint(s.EndpointURI)
	if err != nil {
		return &StartError{Reason: "resolving endpoint", Err: err}
	}
	s.endpoint = ep

	consumer, err := ep.CreateConsumer(s)
	if err != nil {
		return &StartError{Reason: "creating consumer", Err: err}
	}
	s.consumer = consumer

	if err := routing.StartServices(s.Context, s.endpoint, s.consumer); err != nil {
		return &StartError{Reason: "starting services", Err: err}
	}

	logging.L().Info("started streamer", "endpoint", s.EndpointURI)
	return nil
}

// Stop stops consumer, endpoint and context as a group. Stopping an
// already stopped (or never started) streamer is an error.
func (s *Streamer[K, V]) Stop() error {
	if s.Context == nil {
		return &StopError{Reason: "streamer was never started"}
	}
	switch s.Context.Status() {
	case routing.Stopped, routing.Stopping, routing.Unstarted:
		return &StopError{Reason: "routing context already stopped or stopping"}
	}

	if err := routing.StopServices(s.consumer, s.endpoint, s.Context); err != nil {
		return &StopError{Reason: "stopping services", Err: err}
	}

	logging.L().Info("stopped streamer", "endpoint", s.EndpointURI)
	return nil
}

// Process handles one inbound message: extract, forward, then run the
// response processor if one is set. Errors are returned to the consumer's
// dispatch loop untouched; per-message error policy belongs to the
// endpoint, not the streamer.
func (s *Streamer[K, V]) Process(ctx context.Context, msg *routing.Message) error {
	telemetry.MessagesProcessed.Inc()

	if s.MultipleTupleExtractor != nil {
		entries, err := s.MultipleTupleExtractor(msg)
		if err != nil {
			telemetry.ProcessErrors.Inc()
			return err
		}
		if err := s.Sink.AddAll(entries); err != nil {
			telemetry.ProcessErrors.Inc()
			return err
		}
		telemetry.TuplesForwarded.Add(float64(len(entries)))
	} else {
		k, v, err := s.SingleTupleExtractor(msg)
		if err != nil {
			telemetry.ProcessErrors.Inc()
			return err
		}
		if err := s.Sink.AddData(sink.Entry[K, V]{Key: k, Value: v}); err != nil {
			telemetry.ProcessErrors.Inc()
			return err
		}
		telemetry.TuplesForwarded.Inc()
	}

	if s.ResponseProcessor != nil {
		if err := s.ResponseProcessor.Process(ctx, msg); err != nil {
			telemetry.ProcessErrors.Inc()
			return err
		}
	}
	return nil
}

// OwnsContext reports whether the streamer created its own routing
// context at Start.
func (s *Streamer[K, V]) OwnsContext() bool { return s.ownsContext }
