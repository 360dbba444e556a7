package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/app"
	"github.com/abhisek/aquacheck/internal/screens/home"
)

// runApp trains the model, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := setup(cmd, setupOptions{
		speech:    true,
		needModel: true,
		needBot:   true,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	report := svc.model.Report
	return app.Run(app.Options{
		Home: home.Deps{
			Assessor:     svc.pipeline,
			Bot:          svc.bot,
			Announcer:    svc.announcer,
			Recorder:     svc.recorder,
			Report:       &report,
			SpeechEngine: svc.engine,
			AIEnabled:    svc.bot.CanExplain(),
		},
		Status: svc.status(),
	})
}
