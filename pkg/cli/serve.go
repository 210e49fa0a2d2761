package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/healguard/pkg/cli/config"
	httpctrl "github.com/secmon-lab/healguard/pkg/controller/http"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/scheduler"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/service/directory"
	"github.com/secmon-lab/healguard/pkg/service/syncq"
	"github.com/secmon-lab/healguard/pkg/service/timer"
	"github.com/secmon-lab/healguard/pkg/service/worker"
	"github.com/secmon-lab/healguard/pkg/usecase"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var userID string
	var inexactOnly bool
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HEALGUARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User whose medicine set this server manages",
			Required:    true,
			Sources:     cli.EnvVars("HEALGUARD_USER_ID"),
			Destination: &userID,
		},
		&cli.BoolFlag{
			Name:        "inexact-timers",
			Usage:       "Disable exact-timing delivery (reminders degrade to best-effort timing)",
			Sources:     cli.EnvVars("HEALGUARD_INEXACT_TIMERS"),
			Destination: &inexactOnly,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			clk, err := clock.New(appCfg.Timezone)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize clock")
			}

			alertSender, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure reminder delivery")
			}

			var timerOpts []timer.Option
			if inexactOnly {
				timerOpts = append(timerOpts, timer.WithoutExact())
			}
			sched := scheduler.New(clk,
				func(h interfaces.FireHandler) interfaces.TimerService {
					return timer.New(h, timerOpts...)
				},
				scheduler.WithDedupRetention(appCfg.DedupRetention()),
			)

			queue := syncq.New()
			defer func() {
				if err := queue.Close(); err != nil {
					logging.Default().Error("failed to drain sync queue", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, clk, sched,
				usecase.WithAlert(alertSender),
				usecase.WithSyncQueue(queue),
				usecase.WithLimits(appCfg.HistoryLimit, appCfg.NotificationLimit),
			)

			// Load the user's medicines and arm all reminders
			uid := types.UserID(userID)
			medicines, err := uc.Medicine.Load(ctx, uid)
			if err != nil {
				return goerr.Wrap(err, "failed to load medicines", goerr.V("user_id", uid))
			}
			logging.Default().Info("medicines loaded",
				"user_id", uid,
				"count", len(medicines),
				"armed", len(sched.Entries()),
			)

			hwWorker := worker.NewHardwareStatusWorker(repo, uid, appCfg.HardwarePollInterval(), nil)
			if err := hwWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start hardware status worker")
			}

			srv := httpctrl.New(uc, sched,
				httpctrl.WithUserDirectory(directory.NewStatic(uid)),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				hwWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				hwWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
