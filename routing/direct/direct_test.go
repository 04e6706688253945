package direct

import (
	"context"
	"errors"
	"testing"

	"github.com/timothysteffens/ignite/routing"
)

func newStartedEndpoint(t *testing.T, p routing.Processor) (*Endpoint, routing.Consumer) {
	t.Helper()
	ep, err := Component{}.CreateEndpoint("direct:test")
	if err != nil {
		t.Fatalf("CreateEndpoint: %v", err)
	}
	dep := ep.(*Endpoint)
	c, err := dep.CreateConsumer(p)
	if err != nil {
		t.Fatalf("CreateConsumer: %v", err)
	}
	if err := routing.StartServices(dep, c); err != nil {
		t.Fatalf("StartServices: %v", err)
	}
	return dep, c
}

func TestSend_DispatchesSynchronously(t *testing.T) {
	var got *routing.Message
	ep, _ := newStartedEndpoint(t, routing.ProcessorFunc(func(_ context.Context, m *routing.Message) error {
		got = m
		return nil
	}))

	msg := routing.NewMessage([]byte("hello"))
	if err := ep.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != msg {
		t.Fatal("processor did not receive the sent message")
	}
}

func TestSend_ProcessorErrorSurfacesToSender(t *testing.T) {
	boom := errors.New("boom")
	ep, _ := newStartedEndpoint(t, routing.ProcessorFunc(func(context.Context, *routing.Message) error {
		return boom
	}))

	if err := ep.Send(context.Background(), routing.NewMessage(nil)); !errors.Is(err, boom) {
		t.Fatalf("want processor error, got %v", err)
	}
}

func TestSend_BeforeStart(t *testing.T) {
	ep, err := Component{}.CreateEndpoint("direct:cold")
	if err != nil {
		t.Fatalf("CreateEndpoint: %v", err)
	}
	dep := ep.(*Endpoint)
	if err := dep.Send(context.Background(), routing.NewMessage(nil)); err == nil {
		t.Fatal("sending to an unstarted endpoint must fail")
	}
}

func TestSend_AfterConsumerStop(t *testing.T) {
	ep, c := newStartedEndpoint(t, routing.ProcessorFunc(func(context.Context, *routing.Message) error {
		return nil
	}))
	if err := c.Stop(); err != nil {
		t.Fatalf("consumer Stop: %v", err)
	}
	if err := ep.Send(context.Background(), routing.NewMessage(nil)); err == nil {
		t.Fatal("sending with a stopped consumer must fail")
	}
}

func TestCreateConsumer_AfterStopRebinds(t *testing.T) {
	ep, c := newStartedEndpoint(t, routing.ProcessorFunc(func(context.Context, *routing.Message) error {
		return nil
	}))
	if err := c.Stop(); err != nil {
		t.Fatalf("consumer Stop: %v", err)
	}

	var got *routing.Message
	c2, err := ep.CreateConsumer(routing.ProcessorFunc(func(_ context.Context, m *routing.Message) error {
		got = m
		return nil
	}))
	if err != nil {
		t.Fatalf("CreateConsumer after Stop: %v", err)
	}
	if err := c2.Start(); err != nil {
		t.Fatalf("second consumer Start: %v", err)
	}
	msg := routing.NewMessage([]byte("again"))
	if err := ep.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got != msg {
		t.Fatal("rebound consumer did not receive the message")
	}
}

func TestCreateConsumer_OnlyOne(t *testing.T) {
	ep, err := Component{}.CreateEndpoint("direct:one")
	if err != nil {
		t.Fatalf("CreateEndpoint: %v", err)
	}
	dep := ep.(*Endpoint)
	p := routing.ProcessorFunc(func(context.Context, *routing.Message) error { return nil })
	if _, err := dep.CreateConsumer(p); err != nil {
		t.Fatalf("first CreateConsumer: %v", err)
	}
	if _, err := dep.CreateConsumer(p); err == nil {
		t.Fatal("second CreateConsumer must fail")
	}
}
