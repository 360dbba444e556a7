package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/history"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask WaterBot one question",
	Example: "  aquacheck chat what is ph\n" +
		"  aquacheck chat /ask why does turbidity matter",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, setupOptions{
			speech:       true,
			needBot:      true,
			warnOnStderr: true,
		})
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		turn, err := svc.bot.Reply(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		svc.recorder.Chat(ctx, history.OriginCLI, turn)

		fmt.Println(turn.Reply)
		svc.announcer.Enqueue(turn.Reply)
		return nil
	},
}
