package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/STTM-NSU/portfolio-tracker/internal/api"
	"github.com/STTM-NSU/portfolio-tracker/internal/config"
	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/market"
	"github.com/STTM-NSU/portfolio-tracker/internal/postgres"
	"github.com/STTM-NSU/portfolio-tracker/internal/server"
	"github.com/STTM-NSU/portfolio-tracker/internal/store"
	"github.com/STTM-NSU/portfolio-tracker/internal/tracker"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	_trackerCfgFilePath = "./configs/tracker.yaml"
)

func main() {
	cfgPath := flag.String("config", _trackerCfgFilePath, "path to the tracker config")
	flag.Parse()

	// .env may carry POSTGRES_* overrides for the config.
	envErr := godotenv.Load()

	cfg, err := config.LoadTrackerConfig(*cfgPath)
	if err != nil {
		log.Fatalf("%s: can't load tracker cfg", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(cfg.Level())
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if envErr != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zapLogger.Debugf("trying to connect to db with: %s", cfg.Database.Redacted())
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatalf("%s: can't connect to db", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		zapLogger.Fatalf("%s: can't migrate db", err)
	}

	snapshots := market.NewSource(cfg.SnapshotPath, cfg.SnapshotReloadInterval, zapLogger.With("component", "market"))
	if err := snapshots.Reload(); err != nil {
		zapLogger.Fatalf("%s: can't load market snapshot", err)
	}

	listener, err := store.NewListener(cfg.Database.String(), postgres.ChangesChannel, zapLogger.With("component", "listener"))
	if err != nil {
		zapLogger.Fatalf("%s: can't listen for transaction changes", err)
	}

	t, err := tracker.New(tracker.Config{
		Evaluation:         cfg.Evaluation(),
		RefreshInterval:    cfg.RefreshInterval,
		RecomputePerSecond: cfg.RecomputePerSecond,
	}, store.NewStore(db, zapLogger.With("component", "store")), snapshots, zapLogger.With("component", "tracker"))
	if err != nil {
		zapLogger.Fatalf("%s: can't create tracker", err)
	}

	if cfg.Level() != logger.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(t, zapLogger.With("component", "api")))
	httpServer := server.NewHTTPServer(ctx, cfg.HTTP.Port, router, zapLogger.With("component", "http"))

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){
		snapshots.Run,
		listener.Run,
		func(ctx context.Context) { t.Run(ctx, listener.Changes()) },
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx)
		}()
	}

	zapLogger.Infof("portfolio tracker started, base currency %s", cfg.BaseCurrency)
	if err := httpServer.Run(ctx); err != nil {
		zapLogger.Errorf("%s: http server stopped", err)
		cancel()
	}

	wg.Wait()
	zapLogger.Infof("portfolio tracker stopped")
}
