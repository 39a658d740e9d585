package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"guardpost/internal/account"
	"guardpost/internal/audit"
	httpapi "guardpost/internal/http"
	lifecyclehandler "guardpost/internal/lifecycle/handler"
	"guardpost/internal/lifecycle/metrics"
	"guardpost/internal/lifecycle/service"
	"guardpost/internal/lifecycle/store"
	"guardpost/internal/notify"
	"guardpost/internal/platform/config"
	"guardpost/internal/platform/httpserver"
	"guardpost/internal/platform/logger"
	"guardpost/internal/platform/middleware"
	platformredis "guardpost/internal/platform/redis"
	"guardpost/pkg/platform/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		applicants  store.ApplicantStore
		auditStore  audit.Store
		provisioner account.Provisioner
		storeTx     tx.StoreTx
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		applicants = store.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		provisioner = account.NewPostgres(db)
		storeTx = tx.NewSQL(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		memApplicants := store.NewInMemory()
		memAudit := audit.NewInMemory()
		applicants = memApplicants
		auditStore = memAudit
		provisioner = account.NewInMemory()
		storeTx = tx.NewInMemory(memApplicants, memAudit)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var notifier notify.Notifier = notify.Noop{}
	switch {
	case len(cfg.Kafka.Brokers) > 0:
		kafkaNotifier, err := notify.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	case redisClient != nil:
		notifier = notify.NewRedis(redisClient.Client, cfg.Redis.NotifyStream)
	}
	dispatcher := notify.NewDispatcher(notifier, log)

	auditPublisher := audit.NewPublisher(auditStore, audit.WithLogger(log))
	engine := service.New(applicants, auditPublisher,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithProvisioner(provisioner),
		service.WithNotifier(dispatcher),
		service.WithStoreTx(storeTx),
	)

	handler := lifecyclehandler.New(engine, log)
	validator := middleware.NewJWTValidator(cfg.JWTSigningKey)
	router := httpapi.NewRouter(handler, validator, log)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting guardpost", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := dispatcher.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
