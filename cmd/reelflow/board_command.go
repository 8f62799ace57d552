package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

func newBoardCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the pipeline board",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Board()
				if err != nil {
					return fmt.Errorf("fetch board: %w", err)
				}
				if asJSON {
					return printJSON(stdout, resp.Board)
				}

				for _, column := range resp.Board.Columns {
					header := fmt.Sprintf("%s (%d)", statusLabel(column.Status), len(column.Cards))
					for _, line := range renderSectionHeader(header, colorize) {
						fmt.Fprintln(stdout, line)
					}
					if len(column.Cards) == 0 {
						fmt.Fprintln(stdout, "  (empty)")
						fmt.Fprintln(stdout)
						continue
					}
					rows := make([][]string, 0, len(column.Cards))
					for _, card := range column.Cards {
						rows = append(rows, []string{
							fmt.Sprintf("%d", card.ID),
							card.Name,
							card.BatchType,
							card.UpdatedAt,
						})
					}
					fmt.Fprintln(stdout, renderTable(
						[]string{"ID", "Name", "Type", "Updated"},
						rows, 1))
					fmt.Fprintln(stdout)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the board as JSON")
	return cmd
}
