// Package cli implements the comunavision command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/comunavision/go-admin/pkg/config"
)

var (
	flagConfig  string
	flagAPIURL  string
	flagVerbose bool

	app *App
)

var rootCmd = &cobra.Command{
	Use:   "comunavision",
	Short: "Administra el padrón de comuneros desde la terminal",
	Long: `comunavision es el cliente de administración del padrón comunal:
gestiona comuneros, el esquema de campos dinámicos y las exportaciones
contra la API de ComunaVision.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagAPIURL != "" {
			cfg.APIURL = flagAPIURL
		}
		if flagVerbose {
			cfg.Verbose = true
		}
		app, err = newApp(cfg)
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if app != nil {
			app.Close()
		}
	},
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "ruta del archivo de configuración")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "URL base de la API")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log detallado")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, comunerosCmd, camposCmd)
}
