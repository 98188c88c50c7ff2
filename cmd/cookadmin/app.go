package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/whiteelite/cookadmin/internal/config"
	"github.com/whiteelite/cookadmin/internal/console"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/kafka/repositories/repository"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/relay"
	"github.com/whiteelite/cookadmin/internal/infrastructure/metrics"
	tokenstore "github.com/whiteelite/cookadmin/internal/infrastructure/storage/badger"
	"github.com/whiteelite/cookadmin/pkg/logging"
)

// app holds what one command invocation needs. Everything is opened
// lazily and released by close.
type app struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	storeDir   string
	logLevel   string
	logJSON    bool

	cfg    config.Config
	logger *zap.Logger

	registry *prometheus.Registry
	tokens   *tokenstore.TokenStore
	bus      *bus.Bus
	console  *console.Console

	queue       repositories.MessageQueue
	relayCancel context.CancelFunc
	relayDone   chan struct{}
}

func newApp() *app {
	return &app{logger: zap.NewNop()}
}

// setup loads configuration and applies explicitly set flags on top.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL = a.baseURL
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = a.timeout
	}
	if flags.Changed("store-dir") {
		cfg.Auth.StoreDir = a.storeDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) tokenStore() (*tokenstore.TokenStore, error) {
	if a.tokens != nil {
		return a.tokens, nil
	}
	store, err := tokenstore.Open(tokenstore.Config{
		Path:     a.cfg.Auth.StoreDir,
		TokenKey: a.cfg.Auth.TokenKey,
		Logger:   a.logger.Named("store"),
	})
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	a.tokens = store
	return store, nil
}

func (a *app) metricsRegistry() *prometheus.Registry {
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	return a.registry
}

func (a *app) openConsole() (*console.Console, error) {
	if a.console != nil {
		return a.console, nil
	}
	tokens, err := a.tokenStore()
	if err != nil {
		return nil, err
	}

	recorder := metrics.New(a.metricsRegistry())
	a.bus = bus.New(bus.WithCounter(recorder), bus.WithLogger(a.logger.Named("bus")))

	headers := http.Header{}
	for k, v := range a.cfg.API.Headers {
		headers.Set(k, v)
	}
	core := request.New(request.Config{
		BaseURL:         a.cfg.API.BaseURL,
		Headers:         headers,
		Timeout:         a.cfg.API.Timeout,
		SuccessCode:     a.cfg.API.SuccessCode,
		RequestIDHeader: a.cfg.API.RequestIDHeader,
	},
		request.WithTokenProvider(tokens),
		request.WithObserver(recorder),
		request.WithLogger(a.logger.Named("request")),
	)

	if a.cfg.Kafka.Enabled {
		if err := a.startRelay(); err != nil {
			return nil, err
		}
	}

	a.console = console.New(core, a.bus, a.logger.Named("console"))
	return a.console, nil
}

func (a *app) startRelay() error {
	groupID := a.cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "cookadmin-" + a.bus.Origin()
	}
	params := repository.KafkaMessageQueueParams{
		Brokers: a.cfg.Kafka.Brokers,
		Topic:   a.cfg.Kafka.Topic,
		GroupID: groupID,
		Logger:  a.logger.Named("kafka"),
	}
	if err := repository.ValidateKafkaParams(params); err != nil {
		return err
	}
	a.queue = repository.InitializeKafkaMessageQueue(params)

	r := relay.New(a.bus, a.queue, a.logger.Named("relay"))
	ctx, cancel := context.WithCancel(context.Background())
	a.relayCancel = cancel
	a.relayDone = make(chan struct{})
	go func() {
		defer close(a.relayDone)
		_ = r.Run(ctx)
	}()
	return nil
}

// close stops the relay first so pending local invalidations still reach
// the queue, which then flushes them on Close.
func (a *app) close() {
	if a.relayCancel != nil {
		a.relayCancel()
		<-a.relayDone
	}
	if a.queue != nil {
		a.queue.Close()
	}
	if a.console != nil {
		a.console.Close()
	}
	if a.tokens != nil {
		if err := a.tokens.Close(); err != nil {
			a.logger.Warn("close token store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
