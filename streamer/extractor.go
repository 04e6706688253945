package streamer

import "github.com/timothysteffens/ignite/routing"

// SingleTupleExtractor produces exactly one key/value tuple per message.
type SingleTupleExtractor[K comparable, V any] func(msg *routing.Message) (K, V, error)

// MultipleTupleExtractor produces a mapping of tuples per message; the
// whole mapping is forwarded to the sink in one call.
type MultipleTupleExtractor[K comparable, V any] func(msg *routing.Message) (map[K]V, error)
