package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/renderers/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login [usuario]",
	Short: "Inicia sesión contra la API",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		driver := promptDriver()

		username := ""
		if len(args) == 1 {
			username = args[0]
		}
		if username == "" {
			var err error
			username, err = driver.Input(ctx, tui.InputConfig{Message: "Usuario"})
			if err != nil {
				return err
			}
		}
		password, err := driver.Password(ctx, tui.InputConfig{Message: "Contraseña"})
		if err != nil {
			return err
		}

		if err := app.Session.Login(ctx, app.Client, username, password); err != nil {
			return err
		}
		app.Logger.Info("sesión iniciada", zap.String("usuario", username))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Sesión iniciada."))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cierra la sesión actual",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Muestra el estado de la sesión y del backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		health, err := app.Client.Health(cmd.Context())
		switch {
		case err != nil:
			fmt.Fprintf(out, "Backend:  %s (%v)\n", errStyle.Render("sin conexión"), err)
		case health.OK():
			fmt.Fprintf(out, "Backend:  %s", okStyle.Render("ok"))
			if health.Version != "" {
				fmt.Fprintf(out, " (v%s)", health.Version)
			}
			fmt.Fprintln(out)
		default:
			fmt.Fprintf(out, "Backend:  %s\n", errStyle.Render(health.Status))
		}

		if !app.Session.Authenticated() {
			fmt.Fprintln(out, "Sesión:   anónima")
			return nil
		}

		claims, err := app.Session.Claims()
		if err != nil {
			fmt.Fprintln(out, "Sesión:   activa (token ilegible)")
			return nil
		}
		fmt.Fprintf(out, "Sesión:   %s", claims.Subject)
		if claims.Role != "" {
			fmt.Fprintf(out, " [%s]", claims.Role)
		}
		fmt.Fprintln(out)
		if !claims.ExpiresAt.IsZero() {
			state := "vigente"
			if claims.Expired(time.Now()) {
				state = errStyle.Render("expirado")
			}
			fmt.Fprintf(out, "Token:    %s, vence %s\n", state, claims.ExpiresAt.Format("2006-01-02 15:04"))
		}

		if stats, err := app.Comuneros.Stats(cmd.Context()); err == nil {
			fmt.Fprintf(out, "Padrón:   %d comuneros (%d activos, %d eliminados, %d altas hoy)\n",
				stats.Total, stats.Active, stats.Deleted, stats.CreatedToday)
		}
		return nil
	},
}

// promptDriver exposes the TUI renderer's driver for ad-hoc prompts.
func promptDriver() tui.PromptDriver {
	return tui.NewDriver()
}
