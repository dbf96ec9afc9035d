// Command word-replacer-api serves mapping edits, one-shot rewrites and
// live pages over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/judell/word-replacer/internal/configstore"
	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/config"
	"github.com/judell/word-replacer/internal/platform/logger"
	phttp "github.com/judell/word-replacer/internal/platform/net/http"
	"github.com/judell/word-replacer/internal/platform/net/middleware"
	"github.com/judell/word-replacer/internal/platform/store"
	"github.com/judell/word-replacer/internal/services/api"
	"github.com/judell/word-replacer/internal/stats"
)

func main() {
	// .env is optional; real env wins
	_ = godotenv.Load()

	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "word-replacer-api"
	}
	logger.Init(lo)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	storeCfg := root.Prefix("STORE_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	drvCfg := root.Prefix("DRIVER_")

	// configuration store
	cs, err := configstore.Open(ctx, configstore.Options{
		Driver:      storeCfg.MayEnum("DRIVER", "file", "file", "sqlite", "postgres"),
		Path:        storeCfg.MayString("PATH", "./word-replacer.json"),
		URL:         pgCfg.MayString("DBURL", ""),
		MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
		SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
		LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		AppName:     "word-replacer-api",
	})
	if err != nil {
		l.Panic().Err(err).Msg("configstore.Open failed")
	}
	defer func() {
		if err := cs.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close configstore")
		}
	}()

	// scan report sink
	rec, closeRec := openStats(ctx, root.MayEnum("STATS_SINK", "log", "log", "clickhouse", "none"), chCfg)
	defer closeRec()

	drv := driver.New(driver.Options{
		UpdateBuffer: drvCfg.MayInt("UPDATE_BUFFER", 8),
		OnScan:       stats.Hook(rec),
	})
	drv.Init(ctx, cs)
	go func() { _ = drv.Run(ctx) }()

	srv := phttp.NewServer(phttp.ServerOptions{
		Addr:          apiCfg.MayAddr("PORT", ":4000"),
		ShutdownGrace: apiCfg.MayDuration("SHUTDOWN_GRACE", 0),
	})
	mounted := api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Driver:         drv,
		Store:          cs,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PPROF", false),
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
		MaxPages:       apiCfg.MayInt("MAX_PAGES", 0),
		AccessLog: middleware.AccessLogOptions{
			Slow: apiCfg.MayDuration("SLOW_REQUEST", 0),
			Skip: []string{"/health"},
		},
	})
	defer mounted.Close()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	// a listener failure returns before any signal; stop the loops either way
	stop()
}

// openStats picks the recorder for STATS_SINK. The returned func flushes
// and releases whatever the sink holds
func openStats(ctx context.Context, sink string, chCfg config.Conf) (stats.Recorder, func()) {
	l := logger.Get()
	switch sink {
	case "none":
		return stats.Nop{}, func() {}
	case "clickhouse":
		st, err := store.Open(ctx, store.Config{
			AppName: "word-replacer-api",
			CH:      store.CHConfig{Enabled: true, URL: chCfg.MustString("DBURL"), Role: "api"},
		}, store.WithLogger(*logger.Named("stats")))
		if err != nil {
			l.Panic().Err(err).Msg("clickhouse open failed")
		}
		ch, err := stats.NewClickHouse(ctx, st.CH, stats.ClickHouseOptions{
			BatchSize:  chCfg.MayInt("BATCH_SIZE", 64),
			FlushEvery: chCfg.MayDuration("FLUSH_EVERY", 0),
		})
		if err != nil {
			l.Panic().Err(err).Msg("clickhouse schema failed")
		}
		done := make(chan struct{})
		go func() {
			ch.Run(ctx)
			close(done)
		}()
		return stats.Multi{stats.NewLog(logger.Named("stats")), ch}, func() {
			<-done
			_ = st.Close(context.Background())
		}
	default:
		return stats.NewLog(logger.Named("stats")), func() {}
	}
}
