package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	router "github.com/dkeye/huddle/internal/adapters/http"
	wssignal "github.com/dkeye/huddle/internal/adapters/signal"
	"github.com/dkeye/huddle/internal/adapters/sqlite"
	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/app/orch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			db, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer sqlite.Close(db)
			if err := sqlite.Migrate(db); err != nil {
				return err
			}

			catalog := app.NewCachedCatalog(sqlite.NewRoomCatalog(db))
			o := &orch.Orchestrator{
				Registry:      app.NewRegistry(),
				Rooms:         app.NewRoomManager(cfg.SlotCapacity),
				Catalog:       catalog,
				Log:           sqlite.NewMessageLog(db),
				Policy:        app.SimplePolicy{},
				ReplayTimeout: cfg.ReplayTimeout,
			}
			ctl := wssignal.NewSignalWSController(o,
				wssignal.NewRoomRateLimiter(cfg.ChatRateLimit, cfg.ChatRateInterval),
				wssignal.Options{
					SendBuffer: cfg.SendBuffer,
					ReadLimit:  cfg.ReadLimit,
					PingPeriod: cfg.PingPeriod,
				})

			r := router.SetupRouter(ctx, cfg, router.Deps{
				Orch:    o,
				Catalog: catalog,
				Users:   sqlite.NewUserStore(db, 0),
				Signal:  ctl,
			})
			addr := fmt.Sprintf(":%d", cfg.Port)
			srv := &http.Server{
				Addr:    addr,
				Handler: r,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info().Str("addr", addr).Msg("huddle server started")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info().Msg("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("server forced to shutdown")
					return err
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			log.Info().Msg("server exited gracefully")
			return nil
		},
	}
}
