package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/measurement"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Print the safe range of every measurement",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-18s  %-12s  %s\n", "Measurement", "Safe range", "Unit")
		fmt.Println(strings.Repeat("─", 44))
		for _, f := range measurement.Fields() {
			fmt.Printf("%-18s  %-12s  %s\n", f, measurement.RangeOf(f), f.Unit())
		}
	},
}
