package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aquacheck",
	Short: "Water potability checker",
	Long: "AquaCheck predicts whether water is safe to drink from nine quality measurements,\n" +
		"and answers questions about them through WaterBot.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite history database (overrides AQUACHECK_DB env var)")
	flags.String("data", "", "Path to the training CSV (overrides AQUACHECK_DATA env var)")
	flags.String("config", "", "Path to a YAML config file (overrides AQUACHECK_CONFIG env var)")
	flags.Bool("mute", false, "Disable spoken output")
	flags.String("log-file", "", "Write JSON logs to this file")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(rangesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
