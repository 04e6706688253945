package sink

import "fmt"

// Entry is one key/value tuple bound for ingestion.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Sink is the ingestion system tuples are forwarded into. Implementations
// must be safe for concurrent use; buffering, flushing and backpressure
// are theirs to own.
type Sink[K comparable, V any] interface {
	AddData(e Entry[K, V]) error // one tuple
	AddAll(m map[K]V) error      // one batch, all tuples from one message
	Close() error                // idempotent
}

// DataSink is the wire-level shape concrete drivers implement.
type DataSink = Sink[string, []byte]

// Driver is a registerable DataSink configured from decoded YAML.
type Driver interface {
	DataSink
	Configure(any) error
}

/*──────── registry ───────*/

type factory = func() Driver

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func New(name string) (Driver, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
