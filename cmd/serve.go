package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, setupOptions{
			console:   true,
			needModel: true,
			needBot:   true,
		})
		if err != nil {
			return err
		}
		defer svc.Close()

		cfg := svc.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Addr:           cfg.Addr,
			Mode:           cfg.Mode,
			AllowedOrigins: cfg.AllowedOrigins,
			Version:        currentVersion(),
		}, svc.pipeline, svc.bot, svc.recorder, svc.logger)

		svc.logger.Info("serving",
			zap.String("addr", cfg.Addr),
			zap.Float64("model_accuracy", svc.model.Report.Accuracy),
			zap.Bool("ai_enabled", svc.bot.CanExplain()))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides AQUACHECK_ADDR env var)")
}
