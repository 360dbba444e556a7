package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the model and report held-out accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, setupOptions{needModel: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		r := svc.model.Report
		cfg := svc.cfg.Model

		fmt.Printf("Dataset:    %s\n", svc.cfg.DataPath)
		fmt.Printf("Rows:       %d (%d potable, %d values imputed)\n", r.Rows, r.Positives, r.Imputed)
		fmt.Printf("Split:      %d train / %d test (test fraction %.2f, seed %d)\n",
			r.TrainRows, r.TestRows, cfg.TestFraction, cfg.SplitSeed)
		fmt.Printf("Forest:     %d trees, seed %d\n", r.Trees, cfg.Forest.Seed)
		fmt.Printf("Accuracy:   %.2f%%\n", r.Accuracy*100)
		fmt.Printf("Took:       %s\n", r.Duration.Round(time.Millisecond))
		return nil
	},
}
