package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
)

// errInvalidInput makes the process exit non-zero after the notice has
// been printed.
var errInvalidInput = errors.New("invalid input")

// fieldFlag is the CLI flag name for f, e.g. "organic-carbon".
func fieldFlag(f measurement.Field) string {
	return strings.ReplaceAll(f.Key(), "_", "-")
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Check one water sample",
	Example: "  aquacheck predict --ph 7.0 --hardness 150 --solids 2000 --chloramines 2 --sulfate 200 \\\n" +
		"    --conductivity 300 --organic-carbon 2 --trihalomethanes 40 --turbidity 2",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in measurement.Inputs
		for _, f := range measurement.Fields() {
			in[f], _ = cmd.Flags().GetString(fieldFlag(f))
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, err := setup(cmd, setupOptions{
			speech:       !asJSON,
			needModel:    true,
			warnOnStderr: true,
		})
		if err != nil {
			return err
		}
		defer svc.Close()

		o := svc.pipeline.Assess(in)
		id := svc.recorder.Assessment(cmd.Context(), history.OriginCLI, in, o)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				ID string `json:"id"`
				potability.Outcome
			}{id, o}); err != nil {
				return err
			}
		} else {
			fmt.Println(o.Title)
			fmt.Println(o.Message)
			svc.announcer.Enqueue(o.Spoken)
		}

		if o.Kind == potability.KindInputError {
			return errInvalidInput
		}
		return nil
	},
}

func init() {
	for _, f := range measurement.Fields() {
		predictCmd.Flags().String(fieldFlag(f), "", fmt.Sprintf("%s (safe range %s)", f, measurement.RangeOf(f)))
	}
	predictCmd.Flags().Bool("json", false, "Print the outcome as JSON")
}
