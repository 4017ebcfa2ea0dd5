package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/auth"
	"github.com/dwtools/dwcli/internal/config"
	"github.com/dwtools/dwcli/internal/display"
)

// newGenTokenCmd creates the gentoken command
func (app *App) newGenTokenCmd() *cobra.Command {
	var save bool
	var clear bool

	cmd := &cobra.Command{
		Use:   "gentoken",
		Short: "Generate a reusable login token from credentials",
		Long: `Generate a reusable login token from credentials.

The credentials are exchanged for an interim session cookie, which is then
used to request a multi-use login token with a fixed 24 hour lifetime. The
token is printed to stdout; with --save it is also stored locally so later
commands can authenticate without flags.

Examples:
  dwcli gentoken -e https://dms.example.com -u alice -p secret
  dwcli gentoken -e https://dms.example.com -u alice -p secret --save
  dwcli gentoken --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := auth.DeleteToken(); err != nil {
					return err
				}
				fmt.Println("Stored login token removed.")
				return nil
			}

			if app.cfg.Endpoint == "" {
				return config.ErrEndpointNotSet
			}
			if app.cfg.Username == "" || app.cfg.Password == "" {
				return config.ErrNoCredentials
			}

			sp := display.NewSpinner("Requesting login token...")
			sp.Start()
			token, _, err := auth.NewAuthenticator(app.cfg.Endpoint).
				GenerateToken(cmd.Context(), app.cfg.Username, app.cfg.Password, app.cfg.HostID)
			sp.Stop()
			if err != nil {
				return err
			}

			fmt.Println(token)

			if save {
				if err := auth.SaveToken(token); err != nil {
					return err
				}
				path, _ := auth.GetTokenPath()
				fmt.Fprintln(cmd.ErrOrStderr(), "Token stored at "+path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Username, "username", "u", "", "Platform user name")
	cmd.Flags().StringVarP(&app.cfg.Password, "password", "p", "", "Platform password")
	cmd.Flags().StringVar(&app.cfg.HostID, "host-id", "", "Host id registered with the platform")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token for later commands")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the stored token and exit")

	return cmd
}

// newGenCookieCmd creates the gencookie command
func (app *App) newGenCookieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gencookie",
		Short: "Exchange a login token (or credentials) for a session cookie",
		Long: `Exchange a login token for a fresh session cookie.

With --token (or a stored token) the token-logon endpoint is used directly.
With --username/--password the full handshake runs first: credential logon,
token issuance, then token logon.

Examples:
  dwcli gencookie -e https://dms.example.com -t <token>
  dwcli gencookie -e https://dms.example.com -u alice -p secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Endpoint == "" {
				return config.ErrEndpointNotSet
			}

			authenticator := auth.NewAuthenticator(app.cfg.Endpoint)

			token := app.cfg.Token
			if token == "" && app.cfg.Username == "" && auth.HasStoredToken() {
				stored, err := auth.LoadToken()
				if err != nil {
					return err
				}
				token = stored
			}

			var session *auth.Session
			var err error
			switch {
			case token != "":
				session, err = authenticator.LogonWithToken(cmd.Context(), token)
			case app.cfg.Username != "" && app.cfg.Password != "":
				session, err = authenticator.LogonFromCredentials(cmd.Context(), app.cfg.Username, app.cfg.Password, app.cfg.HostID)
			default:
				return fmt.Errorf("token or credentials required. Use --token, or --username and --password")
			}
			if err != nil {
				return err
			}

			fmt.Println(session.Cookie)
			return nil
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Username, "username", "u", "", "Platform user name")
	cmd.Flags().StringVarP(&app.cfg.Password, "password", "p", "", "Platform password")
	cmd.Flags().StringVar(&app.cfg.HostID, "host-id", "", "Host id registered with the platform")

	return cmd
}

// newStatusCmd creates the status command
func (app *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show endpoint and authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Status:")
			fmt.Println()

			if app.cfg.Endpoint != "" {
				fmt.Printf("  Endpoint: %s\n", app.cfg.Endpoint)
			} else {
				fmt.Println("  Endpoint: not set (use --endpoint or DWCLI_ENDPOINT)")
			}

			switch {
			case app.cfg.Cookie != "":
				fmt.Println("  Auth: session cookie supplied")
			case app.cfg.Token != "":
				fmt.Println("  Auth: login token supplied")
			case auth.HasStoredToken():
				path, _ := auth.GetTokenPath()
				fmt.Println("  Auth: stored login token")
				fmt.Printf("  Token stored at: %s\n", path)
			default:
				fmt.Println("  Auth: none. Run 'dwcli gentoken --save' to log in")
			}

			return nil
		},
	}
}
