package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/potability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded assessments and chat turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := history.Recent(cmd.Context(), s.EventRepo(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-4s  %-12s  %s\n",
			"Seq", "Timestamp", "Type", "Via", "Kind", "Summary")
		fmt.Println(strings.Repeat("─", 90))
		for _, e := range entries {
			fmt.Printf("%-5d  %-19s  %-10s  %-4s  %-12s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Type,
				e.Origin,
				e.Kind,
				e.Summary,
			)
		}

		counts, err := s.EventRepo().VerdictCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("count assessments: %w", err)
		}
		fmt.Println()
		fmt.Println(formatCounts(counts))
		return nil
	},
}

// formatCounts renders assessment totals in outcome order.
func formatCounts(counts map[string]int) string {
	order := []potability.Kind{
		potability.KindSafe,
		potability.KindUnsafe,
		potability.KindOutOfRange,
		potability.KindInputError,
	}
	total := 0
	parts := make([]string, 0, len(order))
	for _, k := range order {
		n := counts[string(k)]
		total += n
		parts = append(parts, fmt.Sprintf("%d %s", n, k))
	}
	return fmt.Sprintf("Assessments: %d (%s)", total, strings.Join(parts, ", "))
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}
