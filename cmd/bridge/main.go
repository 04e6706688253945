package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/timothysteffens/ignite/extract"
	"github.com/timothysteffens/ignite/internal/config"
	"github.com/timothysteffens/ignite/internal/logging"
	"github.com/timothysteffens/ignite/internal/telemetry"
	_ "github.com/timothysteffens/ignite/routing/direct"
	_ "github.com/timothysteffens/ignite/routing/kafka"
	"github.com/timothysteffens/ignite/sink"
	sinkkafka "github.com/timothysteffens/ignite/sink/kafka"
	sinkstdout "github.com/timothysteffens/ignite/sink/stdout"
	"github.com/timothysteffens/ignite/streamer"
)

func main() {
	cfgPath := flag.String("config", "bridge.yml", "path to the bridge config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Configure(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snk, err := buildSink(cfg)
	if err != nil {
		log.Fatalf("sink: %v", err)
	}

	st := &streamer.Streamer[string, []byte]{
		EndpointURI: cfg.EndpointURI,
		Sink:        snk,
	}
	switch cfg.Extractor.Kind {
	case "json_field":
		st.SingleTupleExtractor = extract.JSONField(cfg.Extractor.KeyField, cfg.Extractor.ValueField)
	case "json_object":
		st.MultipleTupleExtractor = extract.JSONObject()
	case "header":
		st.SingleTupleExtractor = extract.HeaderKey(cfg.Extractor.Header)
	default:
		log.Fatalf("extractor: unknown kind %q", cfg.Extractor.Kind)
	}

	if err := st.Start(); err != nil {
		log.Fatalf("streamer: %v", err)
	}
	telemetry.Expose(cfg.Metrics)

	<-ctx.Done()

	if err := st.Stop(); err != nil {
		log.Fatalf("streamer: %v", err)
	}
	_ = snk.Close()
}

func buildSink(cfg config.Config) (sink.DataSink, error) {
	drv, err := sink.New(cfg.Sink)
	if err != nil {
		return nil, err
	}
	switch cfg.Sink {
	case "kafka":
		var kc sinkkafka.Config
		if err := cfg.SinkConfig("kafka", &kc); err != nil {
			return nil, err
		}
		if err := drv.Configure(kc); err != nil {
			return nil, err
		}
	case "stdout":
		var sc sinkstdout.Config
		if err := cfg.SinkConfig("stdout", &sc); err != nil {
			return nil, err
		}
		if err := drv.Configure(sc); err != nil {
			return nil, err
		}
	}
	return drv, nil
}
