package passwordreset

import (
	"fmt"

	e "phonereset/internal/core/domain/errors"
)

// Registry holds named brokers. The host application constructs one at
// startup and passes it by reference; there is no process-wide registry.
type Registry struct {
	defaultName string
	brokers     map[string]*Broker
}

func NewRegistry(defaultName string) *Registry {
	if defaultName == "" {
		panic(e.NewInvalidArgumentError("defaultName must not be empty"))
	}
	return &Registry{
		defaultName: defaultName,
		brokers:     make(map[string]*Broker),
	}
}

func (r *Registry) Register(name string, broker *Broker) {
	if broker == nil {
		panic(e.NewNilArgumentError("broker"))
	}
	r.brokers[name] = broker
}

// Broker returns the broker registered under name; the empty name resolves
// to the default.
func (r *Registry) Broker(name string) (*Broker, error) {
	if name == "" {
		name = r.defaultName
	}
	broker, ok := r.brokers[name]
	if !ok {
		return nil, fmt.Errorf("password reset broker %q is not registered", name)
	}
	return broker, nil
}

func (r *Registry) Default() (*Broker, error) {
	return r.Broker(r.defaultName)
}

func (r *Registry) DefaultName() string {
	return r.defaultName
}
