package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/api"
	"github.com/dwtools/dwcli/internal/auth"
	"github.com/dwtools/dwcli/internal/config"
	"github.com/dwtools/dwcli/internal/logging"
	"github.com/dwtools/dwcli/internal/platform"
)

// App holds the application state shared by all commands
type App struct {
	cfg *config.Config
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dwcli",
		Short: "A CLI client for the document-management platform",
		Long: `dwcli is a command-line client for the document-management platform.

It authenticates against a platform endpoint, locates a file cabinet, and
retrieves, queries, updates, uploads, or downloads documents.

Examples:
  dwcli gentoken -e https://dms.example.com -u alice -p secret --save
  dwcli lscabinets -e https://dms.example.com
  dwcli get -c Invoices -q "SERIAL_NO = [X123]"
  dwcli get -c Invoices -f "fields['STATUS'] == 'Open'"
  dwcli download -c Invoices --all -o ./out -n invoice
  dwcli shell -c Invoices`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.cfg.Load()
			app.cfg.NormalizeEndpoint()
			if app.cfg.Verbose {
				logging.SetLevel(logging.LevelDebug)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&app.cfg.Endpoint, "endpoint", "e", "", "Platform endpoint URL")
	pf.StringVarP(&app.cfg.Token, "token", "t", "", "Login token (from gentoken)")
	pf.StringVarP(&app.cfg.Cookie, "cookie", "x", "", "Session cookie (from gencookie)")
	pf.StringVar(&app.cfg.IDField, "id-field", "", "Field carrying the document id (default DWDOCID)")
	pf.BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging (HTTP requests, redacted)")
	pf.IntVar(&app.cfg.Retry.MaxAttempts, "retry-max", app.cfg.Retry.MaxAttempts, "Maximum request attempts")
	pf.Float64Var(&app.cfg.Retry.BaseSeconds, "retry-base", app.cfg.Retry.BaseSeconds, "Base retry delay in seconds")
	pf.Float64Var(&app.cfg.Retry.JitterMinSecs, "retry-jitter-min", app.cfg.Retry.JitterMinSecs, "Minimum retry jitter in seconds")
	pf.Float64Var(&app.cfg.Retry.JitterMaxSecs, "retry-jitter-max", app.cfg.Retry.JitterMaxSecs, "Maximum retry jitter in seconds")

	rootCmd.AddCommand(app.newGenTokenCmd())
	rootCmd.AddCommand(app.newGenCookieCmd())
	rootCmd.AddCommand(app.newStatusCmd())
	rootCmd.AddCommand(app.newCabinetsCmd())
	rootCmd.AddCommand(app.newGetCmd())
	rootCmd.AddCommand(app.newUpdateCmd())
	rootCmd.AddCommand(app.newDownloadCmd())
	rootCmd.AddCommand(app.newUploadCmd())
	rootCmd.AddCommand(app.newShellCmd())

	return rootCmd
}

// connect resolves the session material and returns a platform service.
// Cookie and token must not both be supplied; when they are, the cookie is
// preferred and a warning is emitted. With neither supplied, a stored
// login token is used as a fallback.
func (app *App) connect(ctx context.Context) (*platform.Service, error) {
	if app.cfg.Endpoint == "" {
		return nil, config.ErrEndpointNotSet
	}

	cookie, token, warning := app.cfg.AuthPreference()
	if warning != "" {
		logging.Warn(warning)
	}

	var session *auth.Session
	switch {
	case cookie != "":
		session = auth.NewSession(app.cfg.Endpoint, cookie)
	case token != "":
		s, err := auth.NewAuthenticator(app.cfg.Endpoint).LogonWithToken(ctx, token)
		if err != nil {
			return nil, err
		}
		session = s
	case auth.HasStoredToken():
		stored, err := auth.LoadToken()
		if err != nil {
			return nil, err
		}
		logging.Debug("using stored login token")
		s, err := auth.NewAuthenticator(app.cfg.Endpoint).LogonWithToken(ctx, stored)
		if err != nil {
			return nil, err
		}
		session = s
	default:
		return nil, config.ErrNoAuth
	}

	client := api.NewClient(session, api.PolicyFromConfig(app.cfg.Retry))
	return platform.NewService(client, app.cfg.IDField), nil
}
