package stdout

import (
	"fmt"
	"sync/atomic"

	"github.com/timothysteffens/ignite/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintValue    bool `yaml:"print_value"`
	ValueMaxBytes int  `yaml:"value_max_bytes"` // 0 = unlimited
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
}

var seq uint64

/* ────────── sink.Driver ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	d.cfg = c
	return nil
}

func (d *driver) AddData(e sink.Entry[string, []byte]) error {
	d.print(e.Key, e.Value)
	return nil
}

func (d *driver) AddAll(m map[string][]byte) error {
	for k, v := range m {
		d.print(k, v)
	}
	return nil
}

func (d *driver) Close() error { return nil }

func (d *driver) print(key string, value []byte) {
	n := atomic.AddUint64(&seq, 1)
	if !d.cfg.PrintValue {
		fmt.Printf("[sink %06d] %s (%d bytes)\n", n, key, len(value))
		return
	}
	if d.cfg.ValueMaxBytes > 0 && len(value) > d.cfg.ValueMaxBytes {
		value = value[:d.cfg.ValueMaxBytes]
	}
	fmt.Printf("[sink %06d] %s=%s\n", n, key, value)
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Driver { return &driver{} })
}
