package cli

import (
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/config"
	"github.com/spf13/cobra"
)

// AppFactory builds the App once flags have been parsed. The returned
// cleanup func is called after the command finishes.
type AppFactory func(cfg *config.Config) (*App, func(), error)

// NewRootCommand assembles the authdash command tree. cfg carries the
// defaults, JSON and environment layers; the persistent flags below mirror
// the config flags and override it.
func NewRootCommand(cfg *config.Config, factory AppFactory) *cobra.Command {
	var (
		app        *App
		cleanup    func()
		configPath string
		timeoutSec int
	)

	root := &cobra.Command{
		Use:           "authdash",
		Short:         "Sign in to the authdash API from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second
			}
			a, c, err := factory(cfg)
			if err != nil {
				return err
			}
			app, cleanup = a, c
			return nil
		},
	}

	// run releases the App resources once the command returns, whatever
	// the outcome.
	run := func(fn func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			defer func() {
				if cleanup != nil {
					cleanup()
				}
			}()
			return fn(cmd)
		}
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to JSON config file")
	pf.StringVarP(&cfg.APIURL, "api-url", "u", cfg.APIURL, "auth API base URL")
	pf.StringVarP(&cfg.LoginPath, "login-path", "l", cfg.LoginPath, "login path")
	pf.IntVarP(&timeoutSec, "timeout", "t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	pf.BoolVarP(&cfg.StaticFallback, "static", "s", cfg.StaticFallback, "fall back to a static session when the API is down")
	pf.StringVarP(&cfg.StorePath, "store", "f", cfg.StorePath, "cookie storage file")
	pf.StringVarP(&cfg.LogLevel, "log-level", "v", cfg.LogLevel, "log level")

	var loginEmail string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with email and password. Missing values are prompted for;
the password is always read from the terminal without echo.

Examples:
  authdash login
  authdash login --email user@example.com`,
		Args: cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command) error {
			return app.Login(cmd.Context(), loginEmail)
		}),
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command) error {
			return app.Logout(cmd.Context())
		}),
	}

	var regEmail, regName string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command) error {
			return app.Register(cmd.Context(), regEmail, regName)
		}),
	}
	registerCmd.Flags().StringVar(&regEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&regName, "name", "", "display name")

	var refresh bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command) error {
			return app.Status(cmd.Context(), refresh)
		}),
	}
	statusCmd.Flags().BoolVar(&refresh, "refresh", false, "re-read the profile from the API")

	root.AddCommand(loginCmd, logoutCmd, registerCmd, statusCmd)
	return root
}
