package cli

import (
	"github.com/spf13/cobra"

	"assistant/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Long: `Serves POST /v1/answer, POST /v1/chat and GET /healthz until interrupted.
The listen address defaults to server.addr from the config.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	addr := app.Config.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := httpapi.New(app.Service, app.Router, app.Service.Store(), app.Logger)
	return srv.Run(cmd.Context(), addr)
}
