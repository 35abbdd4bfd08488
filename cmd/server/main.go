// Command server runs the payroll demo API: multi-tenant login, employee
// listings, and background payroll runs with PDF pay stubs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"stipend/internal/audit/publisher"
	auditstore "stipend/internal/audit/store"
	authhandler "stipend/internal/auth/handler"
	authservice "stipend/internal/auth/service"
	authstore "stipend/internal/auth/store"
	jwttoken "stipend/internal/jwt_token"
	officehandler "stipend/internal/office/handler"
	officestore "stipend/internal/office/store"
	payrollhandler "stipend/internal/payroll/handler"
	payrollservice "stipend/internal/payroll/service"
	payrollstore "stipend/internal/payroll/store"
	"stipend/internal/paystub"
	"stipend/internal/platform/config"
	"stipend/internal/platform/database"
	"stipend/internal/platform/health"
	"stipend/internal/platform/logger"
	"stipend/internal/platform/metrics"
	"stipend/internal/seeder"
	httptransport "stipend/internal/transport/http"
	"stipend/migrations"
)

// officeStore is the union of office operations the wired components need,
// satisfied by both the in-memory and postgres stores.
type officeStore interface {
	payrollservice.EmployeeStore
	seeder.OfficeStore
}

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return err
	}

	var (
		offices officeStore
		runs    payrollservice.RunStore
	)
	if pool != nil {
		defer pool.Close()
		if err := pool.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		offices = officestore.NewPostgres(pool.DB())
		runs = payrollstore.NewPostgres(pool.DB())
		log.Info("using postgres stores")
	} else {
		offices = officestore.NewInMemory()
		runs = payrollstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	creds := authstore.NewInMemory()
	auditor := publisher.New(auditstore.NewInMemory(),
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditor.Close()

	eng, err := newEngine(cfg.WorkerConcurrency, log)
	if err != nil {
		return err
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey)
	authSvc := authservice.New(creds, tokens, auditor, m, log)
	payrollSvc := payrollservice.New(
		offices, runs, paystub.NewRenderer(), &queueDispatcher{eng: eng},
		auditor, m, log, cfg.StorageDir,
		payrollservice.WithProcessingDelay(cfg.ProcessingDelay),
	)
	registerJobs(eng, payrollSvc.Execute)

	if err := seeder.New(offices, creds, log).Seed(ctx); err != nil {
		return err
	}

	hc := health.New()
	if pool != nil {
		hc.RegisterCheck("database", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(pingCtx)
		})
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Health:   hc,
		Metrics:  m,
		Verifier: tokens,
		Public:   []httptransport.Registrar{authhandler.New(authSvc, log)},
		Protected: []httptransport.Registrar{
			officehandler.New(offices, log),
			payrollhandler.New(payrollSvc, auditor, log),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := eng.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return eng.Stop(shutdownCtx)
	})
	return g.Wait()
}
