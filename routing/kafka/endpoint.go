// Package kafka provides a consumer endpoint component over sarama
// consumer groups (scheme "kafka:"). URI form:
//
//	kafka:<topic>?brokers=host1,host2&group=<group-id>[&version=3.6.0][&start_from=oldest|newest]
//
// Dispatch errors are logged and the offset is still marked; redelivery
// policy is left to the broker (log-and-continue).
package kafka

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/timothysteffens/ignite/internal/logging"
	"github.com/timothysteffens/ignite/routing"
)

// HeaderKey carries the Kafka record key into the message headers.
const HeaderKey = "kafka.key"

type Component struct{}

func (Component) CreateEndpoint(uri string) (routing.Endpoint, error) {
	cfg, err := parseURI(uri)
	if err != nil {
		return nil, err
	}
	return &Endpoint{uri: uri, cfg: cfg}, nil
}

type endpointConfig struct {
	Topic     string
	Brokers   []string
	GroupID   string
	Version   string
	StartFrom string // oldest|newest (default newest)
	TLSEn     bool
	SASLUser  string
	SASLPass  string
}

func parseURI(uri string) (endpointConfig, error) {
	var cfg endpointConfig

	rest, ok := strings.CutPrefix(uri, "kafka:")
	if !ok {
		return cfg, fmt.Errorf("kafka: unsupported URI %q", uri)
	}
	path, rawQuery, _ := strings.Cut(rest, "?")
	if path == "" {
		return cfg, fmt.Errorf("kafka: URI %q is missing a topic", uri)
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return cfg, fmt.Errorf("kafka: bad URI query in %q: %w", uri, err)
	}

	cfg.Topic = path
	if b := q.Get("brokers"); b != "" {
		cfg.Brokers = strings.Split(b, ",")
	}
	cfg.GroupID = q.Get("group")
	cfg.Version = q.Get("version")
	cfg.StartFrom = q.Get("start_from")
	cfg.TLSEn = q.Get("tls") == "true"
	cfg.SASLUser = q.Get("sasl_user")
	cfg.SASLPass = q.Get("sasl_pass")

	if len(cfg.Brokers) == 0 {
		return cfg, fmt.Errorf("kafka: URI %q is missing brokers", uri)
	}
	if cfg.GroupID == "" {
		return cfg, fmt.Errorf("kafka: URI %q is missing a consumer group", uri)
	}
	return cfg, nil
}

// Endpoint is passive; the connection belongs to its consumer.
type Endpoint struct {
	uri string
	cfg endpointConfig
}

func (e *Endpoint) URI() string  { return e.uri }
func (e *Endpoint) Start() error { return nil }
func (e *Endpoint) Stop() error  { return nil }

func (e *Endpoint) CreateConsumer(p routing.Processor) (routing.Consumer, error) {
	return &Consumer{cfg: e.cfg, proc: p}, nil
}

type Consumer struct {
	cfg  endpointConfig
	proc routing.Processor

	mu     sync.Mutex
	cl     sarama.Client
	group  sarama.ConsumerGroup
	cancel context.CancelFunc
	done   chan struct{}
}

func (c *Consumer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc := sarama.NewConfig()
	if c.cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(c.cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	sc.Consumer.Return.Errors = true
	if c.cfg.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if c.cfg.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = c.cfg.SASLUser, c.cfg.SASLPass
	}
	switch c.cfg.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	cl, err := sarama.NewClient(c.cfg.Brokers, sc)
	if err != nil {
		return err
	}
	group, err := sarama.NewConsumerGroupFromClient(c.cfg.GroupID, cl)
	if err != nil {
		_ = cl.Close()
		return err
	}
	c.cl, c.group = cl, group

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		handler := &groupHandler{proc: c.proc}
		for {
			if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.L().Error("kafka consume loop failed; retrying", "topic", c.cfg.Topic, "err", err)
				time.Sleep(time.Second)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return nil
}

func (c *Consumer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return fmt.Errorf("kafka: consumer for topic %q was never started", c.cfg.Topic)
	}
	c.cancel()
	<-c.done
	err := c.group.Close()
	if cerr := c.cl.Close(); err == nil {
		err = cerr
	}
	c.cancel = nil
	return err
}

type groupHandler struct {
	proc routing.Processor
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()
		case rec, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			msg := toMessage(rec)
			if err := h.proc.Process(sess.Context(), msg); err != nil {
				logging.L().Error("message dispatch failed",
					"topic", rec.Topic, "partition", rec.Partition, "offset", rec.Offset, "err", err)
			}
			sess.MarkMessage(rec, "")
		}
	}
}

func toMessage(rec *sarama.ConsumerMessage) *routing.Message {
	msg := routing.NewMessage(rec.Value)
	msg.ReceivedAt = rec.Timestamp
	for _, h := range rec.Headers {
		msg.SetHeader(string(h.Key), string(h.Value))
	}
	if len(rec.Key) > 0 {
		msg.SetHeader(HeaderKey, string(rec.Key))
	}
	return msg
}

func init() {
	routing.RegisterComponent("kafka", Component{})
}
