package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"geulpi/internal/adapters/broker/kafka"
	"geulpi/internal/core/version"
	"geulpi/internal/modkit"
	"geulpi/internal/platform/config"
	"geulpi/internal/platform/logger"
	phttp "geulpi/internal/platform/net/http"
	"geulpi/internal/platform/net/middleware"
	"geulpi/internal/platform/store"
	assistmod "geulpi/internal/services/assist/module"
	auditrepo "geulpi/internal/services/audit/repo"
	auditsvc "geulpi/internal/services/audit/service"
	bridgedom "geulpi/internal/services/bridge/domain"
	bridgemod "geulpi/internal/services/bridge/module"
	identdom "geulpi/internal/services/ident/domain"
	identrepo "geulpi/internal/services/ident/repo"
	identsvc "geulpi/internal/services/ident/service"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	root := config.New()
	gwCfg := root.Prefix("CORE_GATEWAY_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()
	l.Info().Interface("build", version.Info()).Msg("geulpi gateway starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// storage backends are optional, the bridge itself needs neither
	stCfg := store.Config{AppName: "geulpi-gateway"}
	if pgCfg.MayBool("ENABLED", true) {
		stCfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		stCfg.CH = store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
		}
	}

	st, err := store.Open(ctx, stCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// broker connections are process-wide, opened once here
	kcfg := kafka.FromConfig(root)
	pub := kafka.NewPublisher(kcfg)
	respCons := kafka.NewResponseConsumer(kcfg)
	var errCons *kafka.Consumer

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH}

	// audit is wired only when clickhouse is up
	var (
		audit *auditsvc.Service
		hook  bridgedom.OutcomeHook
	)
	if st.CH != nil {
		audit = auditsvc.New(*l, auditsvc.Config{}, auditrepo.NewCH(st.CH))
		hook = auditsvc.BridgeHook(audit)
		errCons = kafka.NewErrorConsumer(kcfg)
	}
	defer kafka.CloseAll(pub, respCons, errCons)

	bridge := bridgemod.New(deps, pub, respCons, hook)

	var ident identdom.ReaderPort
	if st.PG != nil {
		ident = identsvc.New(st.PG, identrepo.NewPG())
	}

	assist := assistmod.New(deps, bridge.Ports().(bridgemod.Ports).Submit, ident)

	srv := phttp.NewServer(gwCfg)
	r := srv.Router()
	r.Use(
		chimw.RequestID,
		cors.Handler(cors.Options{
			AllowedOrigins: gwCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
		}),
		middleware.RequestContext,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),
		middleware.RecoverJSON,
	)

	r.Get("/healthz", phttp.Handle(func(req *http.Request) phttp.Response {
		if err := st.Guard(req.Context()); err != nil {
			return phttp.Error(err)
		}
		return phttp.OK(map[string]any{
			"status":        "ok",
			"pending_calls": bridge.PendingCalls(),
		})
	}))
	r.Get("/version", phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(version.Info())
	}))

	assist.MountRoutes(r)

	// background workers
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("bridge stopped")
			stop()
		}
	}()
	if audit != nil {
		go func() { _ = audit.Run(ctx) }()
		go func() { _ = audit.RunErrorConsumer(ctx, errCons) }()
	}

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("geulpi gateway stopped")
}
