package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	httpapi "task-tracker.com/task-tracker/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serves the task workflow as a JSON API authenticated with HTTP basic auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		stores := config.NewStores(cfg)
		defer stores.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := stores.Init(ctx); err != nil {
			return err
		}

		users, tasks := newServices(stores)

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, httpapi.NewHandler(tasks), users, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		echoCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		_ = e.Shutdown(echoCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
