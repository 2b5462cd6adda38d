package command

import (
	"github.com/spf13/cobra"

	"github.com/sakif/coursehub/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the coursehub REST API",
		Long: "Opens (and migrates) the database and serves the API until interrupted.\n" +
			"In-flight requests are given --shutdown-timeout to finish.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			srv, err := server.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
