package cqrs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// ErrCommandBusShuttingDown is returned when a command is dispatched to a bus
// that is shutting down.
var ErrCommandBusShuttingDown = errors.New("command bus is shutting down")

// DefaultCommandBus is a simple reflection-based implementation of the
// CommandBus interface.
type DefaultCommandBus struct {
	handlers     map[string]interface{}
	mutex        sync.RWMutex
	shuttingDown atomic.Bool
	active       sync.WaitGroup
}

// NewCommandBus creates a new DefaultCommandBus. If a context is provided the
// bus shuts down when the context is cancelled.
func NewCommandBus(ctx context.Context) *DefaultCommandBus {
	b := &DefaultCommandBus{
		handlers: make(map[string]interface{}),
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			b.Shutdown()
		}()
	}

	return b
}

// Register registers a command handler for a specific command type.
// The handler must implement CommandHandler[C] where C is a Command type.
func (b *DefaultCommandBus) Register(handler interface{}) error {
	handleMethod, exists := reflect.TypeOf(handler).MethodByName("Handle")
	if !exists {
		return fmt.Errorf("handler %T does not implement Handle method", handler)
	}
	if handleMethod.Type.NumIn() != 2 { // receiver + command
		return fmt.Errorf("Handle method must have exactly one parameter (the command)")
	}

	cmdType := handleMethod.Type.In(1)
	cmdInstance := reflect.New(cmdType).Elem().Interface()
	cmd, ok := cmdInstance.(Command)
	if !ok {
		return fmt.Errorf("parameter type %s does not implement Command interface", cmdType)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	name := cmd.CommandName()
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("handler for command %s already registered", name)
	}
	b.handlers[name] = handler
	return nil
}

// Dispatch sends a command to its appropriate handler.
func (b *DefaultCommandBus) Dispatch(cmd Command) error {
	if b.shuttingDown.Load() {
		return ErrCommandBusShuttingDown
	}

	b.mutex.RLock()
	handler, exists := b.handlers[cmd.CommandName()]
	b.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("no handler registered for command %s", cmd.CommandName())
	}

	b.active.Add(1)
	defer b.active.Done()

	handleMethod := reflect.ValueOf(handler).MethodByName("Handle")
	results := handleMethod.Call([]reflect.Value{reflect.ValueOf(cmd)})

	if len(results) > 0 && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}

// Shutdown initiates a graceful shutdown of the command bus.
func (b *DefaultCommandBus) Shutdown() {
	b.shuttingDown.Store(true)
}

// WaitForCompletion blocks until all active commands have finished.
func (b *DefaultCommandBus) WaitForCompletion() {
	b.active.Wait()
}
