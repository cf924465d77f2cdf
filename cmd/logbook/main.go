package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"plant-logbook/internal/config"
	excel "plant-logbook/internal/service/generate-excel"
	"plant-logbook/internal/service/fixtures"
	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/service/officer"
	"plant-logbook/internal/service/refdata"
	"plant-logbook/internal/service/store"
	"plant-logbook/internal/service/summary"
	"plant-logbook/internal/storage"
	"plant-logbook/internal/storage/memory"
	"plant-logbook/internal/storage/mysql"
	"plant-logbook/internal/storage/redis"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	medium, closer, storeOpts := openMedium(ctx, log, cfg)
	cancel()
	if closer != nil {
		defer closer.Close()
	}

	var rebaser jobs.DateRebaser
	storeOpts = append(storeOpts, store.WithKey(cfg.Storage.Key))
	if cfg.Logbook.DemoFixtures {
		plants := cfg.Logbook.Plants
		storeOpts = append(storeOpts, store.WithSeed(func(now time.Time) storage.RootState {
			return fixtures.Seed(plants, now)
		}))
		rebaser = fixtures.Rebaser{}
	}

	st := store.New(log, medium, storeOpts...)
	repo := jobs.NewRepository(log, st, rebaser)

	ref, err := refdata.Load(cfg.Logbook.ReferenceData)
	if err != nil {
		log.Error("failed to load reference data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	thresholds := lifecycle.Thresholds{Warn: cfg.Logbook.PendingWarn, Block: cfg.Logbook.PendingBlock}
	ctl := lifecycle.New(log, repo, ref, lifecycle.WithThresholds(thresholds))
	ctl.Restore(context.Background())

	ledger := officer.NewLedger(log, st)
	summaryService := summary.NewService(repo, ledger, thresholds)
	genService := excel.NewGenerateService(repo, ledger)

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("degraded", st.Degraded()),
	)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, ctl, ledger, ref, summaryService, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

// openMedium picks the backing medium. On failure the store runs on its
// memory slot, so the app still starts.
func openMedium(ctx context.Context, log *slog.Logger, cfg *config.Config) (storage.Medium, io.Closer, []store.Option) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "mysql":
		db, err := mysql.New(ctx, cfg.MySQL)
		if err != nil {
			log.Error("failed to open db, running in memory", slog.String("error", err.Error()))
			return nil, nil, nil
		}
		return db, db, nil
	case "redis":
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect redis, running in memory", slog.String("error", err.Error()))
			return nil, nil, nil
		}
		locker := redis.NewLocker(rdb.Client(), cfg.Redis.LockTTL)
		return rdb, rdb, []store.Option{store.WithLocker(locker)}
	default:
		return memory.New(), nil, nil
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.coreHandler.Enabled(ctx, r.Level) {
		if err := h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	// ошибки дублируем в файл, сбой записи в файл не роняет основной вывод
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envLocal, envProd:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("error", err.Error()))
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{coreHandler: coreHandler, errorHandler: errorHandler})
}
