// Command server runs the medgate HTTP service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"medgate/internal/actors"
	actorshandler "medgate/internal/actors/handler"
	"medgate/internal/audit"
	"medgate/internal/gate"
	gatehandler "medgate/internal/gate/handler"
	gatemetrics "medgate/internal/gate/metrics"
	"medgate/internal/ledger"
	"medgate/internal/oracle"
	oraclecache "medgate/internal/oracle/cache"
	"medgate/internal/platform/config"
	"medgate/internal/platform/httpserver"
	"medgate/internal/platform/logger"
	"medgate/internal/platform/postgres"
	platformredis "medgate/internal/platform/redis"
	"medgate/internal/records"
	"medgate/internal/records/adapters"
	recordshandler "medgate/internal/records/handler"
	recordsmetrics "medgate/internal/records/metrics"
	"medgate/internal/settings"
	settingshandler "medgate/internal/settings/handler"
	transport "medgate/internal/transport/http"
	"medgate/pkg/domain"
	"medgate/pkg/platform/middleware"
	"medgate/pkg/platform/secrets"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	owner, err := domain.ParseAccount(cfg.OwnerAccount)
	if err != nil {
		return errors.New("MEDGATE_OWNER_ACCOUNT must be set to a valid account")
	}

	keyHash := cfg.OwnerKeyHash
	if keyHash == "" {
		// Development fallback: mint a one-off authority key and print it.
		key, err := secrets.Generate()
		if err != nil {
			return err
		}
		if keyHash, err = secrets.Hash(key); err != nil {
			return err
		}
		log.Warn("MEDGATE_OWNER_KEY_HASH not set, generated a one-off authority key", "key", key)
	}

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := applySchemas(ctx, db); err != nil {
			return err
		}
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, worker, closeSink, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	factory := newOracleFactory(cfg, redisClient, log)

	oracleRef := cfg.OracleURL
	if oracleRef == "" {
		log.Warn("MEDGATE_ORACLE_URL not set, using the in-process static oracle")
		oracleRef = oracle.StaticRef
	}
	var settingsStore settings.Store
	if db != nil {
		settingsStore = settings.NewPostgresStore(db, oracleRef, cfg.CompetencyThreshold)
	} else {
		settingsStore = settings.NewInMemoryStore(oracleRef, cfg.CompetencyThreshold)
	}
	settingsSvc, err := settings.New(ctx, settingsStore, factory, owner,
		settings.WithLogger(log), settings.WithPublisher(publisher))
	if err != nil {
		return err
	}

	gateSvc, err := gate.New(settingsSvc, settingsSvc,
		gate.WithLogger(log), gate.WithMetrics(gatemetrics.New()))
	if err != nil {
		return err
	}

	var doctorStore actors.DoctorStore = actors.NewInMemoryDoctorStore()
	var adminStore actors.AdminStore = actors.NewInMemoryAdminStore()
	var recordStore records.Store = records.NewInMemoryStore()
	var book ledger.Ledger = ledger.NewInMemoryBook()
	if db != nil {
		doctorStore = actors.NewPostgresDoctorStore(db)
		adminStore = actors.NewPostgresAdminStore(db)
		recordStore = records.NewPostgresStore(db)
		book = ledger.NewPostgresBook(db)
	}

	actorsSvc, err := actors.New(doctorStore, adminStore, owner, gateSvc,
		actors.WithLogger(log), actors.WithPublisher(publisher))
	if err != nil {
		return err
	}

	recordsSvc, err := records.New(recordStore, book, gateSvc, adapters.NewActorsDirectory(actorsSvc),
		records.WithLogger(log), records.WithMetrics(recordsmetrics.New()),
		records.WithPublisher(publisher))
	if err != nil {
		return err
	}

	router := transport.NewRouter(transport.Deps{
		Logger:       log,
		Auth:         middleware.NewAuthenticator([]byte(cfg.JWTSigningKey)),
		OwnerKeyHash: keyHash,
		Actors:       actorshandler.New(actorsSvc, log),
		Records:      recordshandler.New(recordsSvc, log),
		Settings:     settingshandler.New(settingsSvc, log),
		Gate:         gatehandler.New(gateSvc),
	})

	srv := httpserver.New(cfg.Addr, router, cfg.HTTPReadTimeout, cfg.HTTPWriteTimeout)

	g, ctx := errgroup.WithContext(ctx)
	if worker != nil {
		g.Go(func() error {
			err := worker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newOracleFactory builds oracle clients from references. The static
// reference yields the in-process oracle; anything else is treated as an
// HTTP base URL, wrapped in the redis verdict cache when one is available.
func newOracleFactory(cfg config.Server, redisClient *platformredis.Client, log *slog.Logger) settings.OracleFactory {
	return func(ref string) (oracle.Oracle, error) {
		if ref == oracle.StaticRef {
			return oracle.NewStatic(), nil
		}
		var ora oracle.Oracle = oracle.NewHTTPClient(ref, cfg.OracleTimeout)
		if redisClient != nil {
			ora = oraclecache.New(ora, redisClient.Client, cfg.OracleCacheTTL, log)
		}
		return ora, nil
	}
}

// buildPublisher selects the notification pipeline: Kafka behind a channel
// worker when brokers are configured, an in-memory buffer otherwise.
func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Publisher, *audit.Worker, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewPublisher(audit.NewInMemoryStore(), log), nil, func() {}, nil
	}
	sink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		return nil, nil, nil, err
	}
	publisher, worker := audit.NewChannelPublisher(sink, 1024, log)
	return publisher, worker, sink.Close, nil
}

func applySchemas(ctx context.Context, db *sql.DB) error {
	for _, ddl := range []string{actors.Schema, records.Schema, ledger.Schema, settings.Schema} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
