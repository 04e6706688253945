package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	"github.com/timothysteffens/ignite/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
}

type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	var err error
	d.p, err = sarama.NewSyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) AddData(e sink.Entry[string, []byte]) error {
	_, _, err := d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(e.Key),
		Value: sarama.ByteEncoder(e.Value),
	})
	return err
}

func (d *driver) AddAll(m map[string][]byte) error {
	batch := make([]*sarama.ProducerMessage, 0, len(m))
	for k, v := range m {
		batch = append(batch, &sarama.ProducerMessage{
			Topic: d.cfg.Topic,
			Key:   sarama.StringEncoder(k),
			Value: sarama.ByteEncoder(v),
		})
	}
	return d.p.SendMessages(batch)
}

func (d *driver) Close() error {
	return d.p.Close()
}

func init() { sink.Register("kafka", func() sink.Driver { return &driver{} }) }
