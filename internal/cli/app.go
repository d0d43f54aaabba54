package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/comuneros"
	"github.com/comunavision/go-admin/pkg/config"
	"github.com/comunavision/go-admin/pkg/renderers/tui"
	"github.com/comunavision/go-admin/pkg/schema"
	"github.com/comunavision/go-admin/pkg/session"
)

// App bundles the wired services every command works against.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Client    *apiclient.Client
	Session   *session.Store
	Comuneros *comuneros.Service
	Campos    *schema.Service
	Prompts   *tui.Renderer
}

// newApp builds the service graph from resolved configuration.
func newApp(cfg config.Config) (*App, error) {
	logger, err := buildLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("cli: initialize logger: %w", err)
	}

	storage, err := session.NewFileStorage(cfg.TokenPath)
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(storage)
	if err != nil {
		return nil, err
	}

	client := apiclient.New(cfg.APIURL,
		apiclient.WithTokenSource(store),
		apiclient.WithUnauthorizedHandler(func() {
			store.HandleUnauthorized()
			logger.Warn("sesión expirada, vuelve a iniciar sesión")
		}),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Session:   store,
		Comuneros: comuneros.NewService(client),
		Campos:    schema.NewService(client),
		Prompts:   tui.New(),
	}, nil
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

// requireSession guards commands that need a token before making a request.
func (a *App) requireSession() error {
	if !a.Session.Authenticated() {
		return errors.New("cli: no hay sesión activa; ejecuta `comunavision login`")
	}
	return nil
}

// Close flushes the logger.
func (a *App) Close() {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
