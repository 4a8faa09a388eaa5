package di

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	domrepo "SteelPulse/internal/domain/repository"
	"SteelPulse/internal/handler/api"
	internalrepo "SteelPulse/internal/repository"
	icache "SteelPulse/internal/service/cache"
	"SteelPulse/internal/service/eia"
	"SteelPulse/internal/service/fred"
	"SteelPulse/internal/service/markets"
	"SteelPulse/internal/service/routes"
	"SteelPulse/internal/service/stream"
	"SteelPulse/internal/usecase"
	pkgcache "SteelPulse/pkg/cache"
	pkgch "SteelPulse/pkg/clickhouse"
	"SteelPulse/pkg/config"
	pkgkafka "SteelPulse/pkg/kafka"
	applogger "SteelPulse/pkg/logger"
	"SteelPulse/pkg/metrics"
	"SteelPulse/pkg/queue"
	"SteelPulse/pkg/server"
)

// ProvideLogger creates the application logger. When a logs topic is
// configured, error-level lines are aggregated and shipped to Kafka.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, err
	}

	if cfg.Kafka.LogsTopic != "" && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// database exists. Table schemas are owned by the stores that use them.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideEventStore creates the manual event store and its table.
func ProvideEventStore(chClient *pkgch.Client, l *applogger.Logger) (*internalrepo.CHEventStore, error) {
	store := internalrepo.NewCHEventStore(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideSeriesArchive creates the series snapshot archive and its table.
func ProvideSeriesArchive(chClient *pkgch.Client, l *applogger.Logger) (*internalrepo.CHSeriesArchive, error) {
	archive := internalrepo.NewCHSeriesArchive(chClient)
	archive.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

// ProvideBytesCache picks the fetch cache backend: Redis when configured,
// in-process TTL cache otherwise.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideRedisCache creates the shared Redis cache. Returns nil when Redis
// is disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideRedisClient exposes the raw connection for the job queue.
func ProvideRedisClient(rc *pkgcache.RedisCache) *redis.Client {
	if rc == nil {
		return nil
	}
	return rc.Client()
}

// ProvideCacheService picks the object cache backend: layered memory+Redis
// when Redis is configured, memory-only otherwise.
func ProvideCacheService(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc != nil {
		return pkgcache.NewLayeredCache(rc)
	}
	return pkgcache.NewMemoryCache()
}

// ProvideMarketsClient creates the Yahoo chart fetch client.
func ProvideMarketsClient(cfg *config.Config, c icache.BytesCache, m domrepo.Metrics, l *applogger.Logger) *markets.Client {
	client := markets.New(cfg.Markets.ChartURL, cfg.Markets.Timeout, cfg.Markets.FetchTTL, c, m)
	client.SetLogger(l)
	return client
}

// ProvideEIAClient creates the EIA crude production client.
func ProvideEIAClient(cfg *config.Config, c icache.BytesCache, m domrepo.Metrics, l *applogger.Logger) *eia.Client {
	client := eia.New(cfg.EIA.URL, cfg.EIA.Timeout, cfg.EIA.FetchTTL, c, m)
	client.SetLogger(l)
	return client
}

// ProvideReferenceSource creates the FRED reference series client.
func ProvideReferenceSource(cfg *config.Config, c icache.BytesCache, m domrepo.Metrics, l *applogger.Logger) *fred.Client {
	client := fred.New(cfg.Reference.URL, cfg.Reference.SeriesID, cfg.Reference.Timeout, cfg.Reference.FetchTTL, c, m)
	client.SetLogger(l)
	return client
}

// ProvideRoutesLoader creates the route-mix CSV loader.
func ProvideRoutesLoader(cfg *config.Config, c pkgcache.Service) *routes.Loader {
	l := routes.NewLoader(cfg.Routes.CSVPath)
	l.SetCache(c)
	return l
}

// ProvideHub creates the WebSocket refresh hub.
func ProvideHub(l *applogger.Logger) *stream.Hub {
	hub := stream.NewHub()
	hub.SetLogger(l)
	return hub
}

// ProvideKafkaProducer creates a Kafka producer for derived events.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the derived-events Kafka publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer creates the event ingest consumer. Returns nil when
// the consumer is disabled.
func ProvideKafkaConsumer(cfg *config.Config, m domrepo.Metrics, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(consumerObservabilityHook(m, l)))
	return consumer, nil
}

// consumerObservabilityHook times every handled message and logs failures
// with their trace id when the producer set one.
func consumerObservabilityHook(m domrepo.Metrics, l *applogger.Logger) pkgkafka.ConsumerHook {
	return pkgkafka.HookFuncs{
		Before: func(ctx context.Context, _ string, km kafkago.Message, data []byte) (context.Context, kafkago.Message, []byte, error) {
			ctx = pkgkafka.WithStartTime(ctx, time.Now())
			ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
			return ctx, km, data, nil
		},
		After: func(ctx context.Context, topic string, _ kafkago.Message, _ []byte, err error) {
			if start, ok := pkgkafka.StartTime(ctx); ok {
				m.RecordLatency("consumer_handle_seconds", time.Since(start).Seconds())
			}
			if err != nil {
				m.RecordError("consumer_handle")
			}
		},
		Err: func(_ context.Context, topic string, km kafkago.Message, _ []byte, err error) {
			l.Warn("kafka message failed",
				applogger.String("topic", topic),
				applogger.Int("partition", km.Partition),
				applogger.Error(err),
			)
		},
	}
}

// ProvideKafkaEventsHandler handles manual event upserts from the ingest topic.
func ProvideKafkaEventsHandler(store *internalrepo.CHEventStore, m domrepo.Metrics, cfg *config.Config) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.IngestTopic, store, m)
}

// ProvideOverlayBuilder creates the overlay usecase.
func ProvideOverlayBuilder(
	marketsClient *markets.Client,
	store *internalrepo.CHEventStore,
	ref *fred.Client,
	m domrepo.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.OverlayBuilder {
	b := usecase.NewOverlayBuilder(marketsClient, store, ref, m, cfg.Markets.SteelTicker)
	b.SetLogger(l)
	return b
}

// ProvideMarketsViewer creates the market proxies usecase.
func ProvideMarketsViewer(marketsClient *markets.Client, cfg *config.Config) *usecase.MarketsViewer {
	return usecase.NewMarketsViewer(marketsClient, cfg.Markets.Proxies)
}

// ProvideRefreshQueue creates the Redis-backed refresh job queue. Returns
// nil when Redis is disabled; the app then serves request-time fetches only.
func ProvideRefreshQueue(
	cfg *config.Config,
	client *redis.Client,
	job *usecase.RefreshJob,
	l *applogger.Logger,
) *queue.RedisQueue {
	if client == nil {
		return nil
	}
	workers := cfg.Refresh.Workers
	if workers <= 0 {
		workers = 2
	}
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    workers,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, []queue.Job{job})
}

// ProvideRefreshJob creates the refresh worker.
func ProvideRefreshJob(
	marketsClient *markets.Client,
	oil *eia.Client,
	ref *fred.Client,
	archive *internalrepo.CHSeriesArchive,
	pub domrepo.Publisher,
	hub *stream.Hub,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.RefreshJob {
	job := usecase.NewRefreshJob(
		marketsClient, oil, ref, archive, pub, hub, m,
		domrepo.LB5y, domrepo.LB5y.Start(time.Now()),
	)
	job.SetLogger(l)
	return job
}

// ProvideRefresher creates the refresh scheduler. Returns nil when the
// schedule or the queue is disabled.
func ProvideRefresher(cfg *config.Config, q *queue.RedisQueue, l *applogger.Logger) *usecase.Refresher {
	if !cfg.Refresh.Enabled || q == nil {
		return nil
	}
	symbols := []string{cfg.Markets.SteelTicker}
	for _, ticker := range cfg.Markets.Proxies {
		if ticker != cfg.Markets.SteelTicker {
			symbols = append(symbols, ticker)
		}
	}
	sort.Strings(symbols[1:])

	r := usecase.NewRefresher(q, cfg.Refresh.Interval, symbols)
	r.SetLogger(l)
	return r
}

// ProvideDashboardsHandler creates the HTTP API handler.
func ProvideDashboardsHandler(
	l *applogger.Logger,
	overlay *usecase.OverlayBuilder,
	marketsView *usecase.MarketsViewer,
	routesLoader *routes.Loader,
	oil *eia.Client,
	hub *stream.Hub,
) *api.DashboardsHandler {
	return api.NewDashboardsHandler(l, overlay, marketsView, routesLoader, oil, hub)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.DashboardsHandler,
	consumer *pkgkafka.Consumer,
	eventsHandler *usecase.KafkaEventsHandler,
	chClient *pkgch.Client,
	refreshQueue *queue.RedisQueue,
	refresher *usecase.Refresher,
	hub *stream.Hub,
	pub domrepo.Publisher,
) *server.App {
	return server.New(cfg, l, handler, consumer, eventsHandler, chClient, refreshQueue, refresher, hub, pub)
}
