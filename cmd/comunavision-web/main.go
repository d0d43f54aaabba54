// Command comunavision-web serves the local admin panel.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/comunavision/go-admin/internal/web"
	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/config"
	"github.com/comunavision/go-admin/pkg/session"
)

var (
	flagConfig  string
	flagAddr    string
	flagVerbose bool
)

func main() {
	cmd := &cobra.Command{
		Use:           "comunavision-web",
		Short:         "Panel web local de ComunaVision",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVar(&flagConfig, "config", "", "ruta del archivo de configuración")
	cmd.Flags().StringVar(&flagAddr, "addr", "", "dirección de escucha (host:puerto)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "registro detallado")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Web.Addr = flagAddr
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	logger, err := buildLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("web: initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	storage, err := session.NewFileStorage(cfg.TokenPath)
	if err != nil {
		return err
	}
	store, err := session.NewStore(storage)
	if err != nil {
		return err
	}

	client := apiclient.New(cfg.APIURL,
		apiclient.WithTokenSource(store),
		apiclient.WithUnauthorizedHandler(func() {
			store.HandleUnauthorized()
			logger.Warn("sesión expirada, vuelve a iniciar sesión")
		}),
	)

	panel, err := web.New(cfg, logger, client, store)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           panel,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	logger.Info("panel escuchando", zap.String("addr", cfg.Web.Addr), zap.String("api", cfg.APIURL))

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("apagando el panel")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}
