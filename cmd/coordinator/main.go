package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/magistrala/pkg/jaeger"
	"github.com/absmach/magistrala/pkg/prometheus"
	"github.com/absmach/magistrala/pkg/server"
	httpserver "github.com/absmach/magistrala/pkg/server/http"
	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/coordinator/api"
	"github.com/absmach/fedledger/coordinator/middleware"
	"github.com/absmach/fedledger/pkg/ledger"
	badgerledger "github.com/absmach/fedledger/pkg/ledger/badger"
	"github.com/absmach/fedledger/pkg/notifier"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "coordinator"
	defHTTPPort   = "7171"
	envPrefixHTTP = "COORDINATOR_HTTP_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel      string        `env:"COORDINATOR_LOG_LEVEL"      envDefault:"info"`
	InstanceID    string        `env:"COORDINATOR_INSTANCE_ID"`
	LedgerPath    string        `env:"COORDINATOR_LEDGER_PATH"    envDefault:""`
	MQTTAddress   string        `env:"COORDINATOR_MQTT_ADDRESS"   envDefault:""`
	MQTTQoS       uint8         `env:"COORDINATOR_MQTT_QOS"       envDefault:"2"`
	MQTTTimeout   time.Duration `env:"COORDINATOR_MQTT_TIMEOUT"   envDefault:"30s"`
	MQTTUsername  string        `env:"COORDINATOR_MQTT_USERNAME"`
	MQTTPassword  string        `env:"COORDINATOR_MQTT_PASSWORD"`
	MQTTBaseTopic string        `env:"COORDINATOR_MQTT_BASE_TOPIC" envDefault:"fedledger"`
	OTELURL       url.URL       `env:"COORDINATOR_OTEL_URL"`
	TraceRatio    float64       `env:"COORDINATOR_TRACE_RATIO"    envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, "", cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	var l ledger.Ledger
	switch cfg.LedgerPath {
	case "":
		l = ledger.NewInMemoryLedger()
	default:
		bl, err := badgerledger.NewLedger(cfg.LedgerPath)
		if err != nil {
			logger.Error("failed to open ledger", slog.String("error", err.Error()))

			return
		}
		l = bl
	}
	defer func() {
		if err := l.Close(); err != nil {
			logger.Error("error closing ledger", slog.Any("error", err))
		}
	}()

	var n notifier.Notifier
	if cfg.MQTTAddress != "" {
		mn, err := notifier.NewMQTT(cfg.MQTTAddress, cfg.MQTTQoS, svcName+"-"+cfg.InstanceID, cfg.MQTTUsername, cfg.MQTTPassword, cfg.MQTTBaseTopic, cfg.MQTTTimeout, logger)
		if err != nil {
			logger.Error("failed to initialize mqtt notifier", slog.String("error", err.Error()))

			return
		}
		n = mn
	}

	svc := coordinator.NewService(l, n, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}
