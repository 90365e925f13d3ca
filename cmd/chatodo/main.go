// Package main provides the entry point for the chatodo server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/chatodo/chatodo/internal/profile"
	"github.com/chatodo/chatodo/server/bot"
	v1 "github.com/chatodo/chatodo/server/router/api/v1"
	"github.com/chatodo/chatodo/server/scheduler"
	"github.com/chatodo/chatodo/server/service/todo"
	"github.com/chatodo/chatodo/store"
	"github.com/chatodo/chatodo/store/db"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "chatodo",
	Short: "Chat-driven todo service with Chinese natural-language deadlines",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:                      viper.GetString("mode"),
			Addr:                      viper.GetString("addr"),
			Port:                      viper.GetInt("port"),
			Data:                      viper.GetString("data"),
			Driver:                    viper.GetString("driver"),
			DSN:                       viper.GetString("dsn"),
			DailyReportTime:           viper.GetString("daily-report-time"),
			ReminderAdvanceMinutes:    viper.GetInt("reminder-advance-minutes"),
			OverdueCheckIntervalHours: viper.GetInt("overdue-check-interval-hours"),
			EnableDailyReport:         viper.GetBool("enable-daily-report"),
			EnableDeadlineReminder:    viper.GetBool("enable-deadline-reminder"),
			Version:                   version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return run(instanceProfile)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	flags.String("addr", "", "binding address for the server")
	flags.Int("port", 8233, "binding port for the server")
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	flags.String("dsn", "", "database connection string")
	flags.String("daily-report-time", "08:00", "wall-clock time of the daily report push")
	flags.Int("reminder-advance-minutes", 30, "minutes before a deadline to push a reminder")
	flags.Int("overdue-check-interval-hours", 2, "hours between overdue sweeps")
	flags.Bool("enable-daily-report", true, "enable the daily report push")
	flags.Bool("enable-deadline-reminder", true, "enable deadline reminder and overdue pushes")

	viper.SetEnvPrefix("chatodo")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func run(instanceProfile *profile.Profile) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	defer storeInstance.Close()
	if err := storeInstance.Init(ctx); err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}

	todoService := todo.NewService(storeInstance)
	dispatcher := bot.New(todoService, logSender{}, time.Duration(instanceProfile.ReminderAdvanceMinutes)*time.Minute)
	sched := scheduler.New()

	if instanceProfile.EnableDailyReport {
		if err := sched.StartDaily(ctx, instanceProfile.DailyReportTime, "daily-report", dispatcher.OnDailyReport); err != nil {
			return fmt.Errorf("failed to start daily report loop: %w", err)
		}
		slog.Info("每日早报已启用", "time", instanceProfile.DailyReportTime)
	}
	if instanceProfile.EnableDeadlineReminder {
		checkInterval := reminderCheckInterval(instanceProfile.ReminderAdvanceMinutes)
		sched.StartInterval(ctx, checkInterval, checkInterval, "reminder-check", dispatcher.OnReminderCheck)
		slog.Info("截止提醒已启用", "advanceMinutes", instanceProfile.ReminderAdvanceMinutes)

		overdueInterval := time.Duration(instanceProfile.OverdueCheckIntervalHours) * time.Hour
		sched.StartInterval(ctx, overdueInterval, overdueInterval, "overdue-check", dispatcher.OnOverdueCheck)
		slog.Info("逾期检查已启用", "intervalHours", instanceProfile.OverdueCheckIntervalHours)
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	v1.NewAPIV1Service(instanceProfile, storeInstance, todoService, dispatcher).Register(echoServer)

	address := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("server started", "address", address, "version", version, "mode", instanceProfile.Mode)
		if err := echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		slog.Info("shutting down")
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := echoServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return group.Wait()
}

// reminderCheckInterval keeps the sweep frequent enough for the advance
// window, clamped between 1 and 10 minutes.
func reminderCheckInterval(advanceMinutes int) time.Duration {
	minutes := advanceMinutes / 2
	if minutes < 1 {
		minutes = 1
	}
	if minutes > 10 {
		minutes = 10
	}
	return time.Duration(minutes) * time.Minute
}

// logSender writes outbound pushes to the log. Chat transports integrate by
// calling POST /api/v1/message; pushes surface here until a transport
// registers a delivery hook.
type logSender struct{}

func (logSender) Send(_ context.Context, key string, text string, mentionAll bool) error {
	slog.Info("outbound push", "key", key, "mentionAll", mentionAll, "text", text)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
