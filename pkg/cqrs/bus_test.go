package cqrs_test

import (
	"context"
	"testing"

	"sessiondock/pkg/cqrs"
)

type pingCommand struct {
	Target string
}

func (c pingCommand) CommandName() string {
	return "Ping"
}

type pingHandler struct {
	handled []string
}

func (h *pingHandler) Handle(cmd pingCommand) error {
	h.handled = append(h.handled, cmd.Target)
	return nil
}

type echoQuery struct {
	Message string
}

func (q echoQuery) QueryName() string {
	return "Echo"
}

type echoHandler struct{}

func (h *echoHandler) Handle(query echoQuery) (string, error) {
	return query.Message, nil
}

func TestCommandBusDispatch(t *testing.T) {
	bus := cqrs.NewCommandBus(nil)
	handler := &pingHandler{}

	if err := bus.Register(handler); err != nil {
		t.Fatalf("failed to register handler: %v", err)
	}

	if err := bus.Dispatch(pingCommand{Target: "a"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(handler.handled) != 1 || handler.handled[0] != "a" {
		t.Errorf("handler saw %v, expected [a]", handler.handled)
	}
}

func TestCommandBusRejectsDuplicateRegistration(t *testing.T) {
	bus := cqrs.NewCommandBus(nil)
	if err := bus.Register(&pingHandler{}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := bus.Register(&pingHandler{}); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestCommandBusShutdownRejectsNewCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := cqrs.NewCommandBus(ctx)
	if err := bus.Register(&pingHandler{}); err != nil {
		t.Fatalf("failed to register handler: %v", err)
	}

	cancel()
	bus.Shutdown() // direct call avoids racing the context goroutine

	if err := bus.Dispatch(pingCommand{Target: "b"}); err != cqrs.ErrCommandBusShuttingDown {
		t.Errorf("got %v, expected ErrCommandBusShuttingDown", err)
	}
}

func TestQueryBusDispatch(t *testing.T) {
	bus := cqrs.NewQueryBus()
	if err := bus.Register(&echoHandler{}); err != nil {
		t.Fatalf("failed to register handler: %v", err)
	}

	result, err := bus.Dispatch(echoQuery{Message: "hello"})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result.(string) != "hello" {
		t.Errorf("got %v, expected hello", result)
	}
}

func TestQueryBusUnknownQuery(t *testing.T) {
	bus := cqrs.NewQueryBus()
	if _, err := bus.Dispatch(echoQuery{}); err == nil {
		t.Error("dispatch of unregistered query should fail")
	}
}
