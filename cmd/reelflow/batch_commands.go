package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelflow/internal/api"
	"reelflow/internal/batch"
	"reelflow/internal/ipc"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Manage pipeline batches",
	}

	batchCmd.AddCommand(newBatchCreateCommand(ctx))
	batchCmd.AddCommand(newBatchListCommand(ctx))
	batchCmd.AddCommand(newBatchShowCommand(ctx))
	batchCmd.AddCommand(newBatchMoveCommand(ctx))
	batchCmd.AddCommand(newBatchTargetsCommand(ctx))
	batchCmd.AddCommand(newBatchSetCommand(ctx))
	batchCmd.AddCommand(newBatchComposeCommand(ctx))
	batchCmd.AddCommand(newBatchCloseCommand(ctx))
	batchCmd.AddCommand(newBatchDeleteCommand(ctx))

	return batchCmd
}

func newBatchCreateCommand(ctx *commandContext) *cobra.Command {
	var batchType string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a batch in the first column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchCreate(args[0], batchType)
				if err != nil {
					return fmt.Errorf("create batch: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created batch %d (%s) in %s\n",
					resp.Batch.ID, resp.Batch.Name, statusLabel(resp.Batch.Status))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&batchType, "type", "t", "", "Batch type (e.g. CONCEPT, ITERATION)")
	return cmd
}

func newBatchListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches, optionally filtered by column",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchList(normalizeStatuses(statuses))
				if err != nil {
					return fmt.Errorf("list batches: %w", err)
				}
				if asJSON {
					return printJSON(stdout, resp.Batches)
				}
				if len(resp.Batches) == 0 {
					fmt.Fprintln(stdout, "No batches found")
					return nil
				}
				rows := make([][]string, 0, len(resp.Batches))
				for _, b := range resp.Batches {
					rows = append(rows, []string{
						fmt.Sprintf("%d", b.ID),
						b.Name,
						b.BatchType,
						statusLabel(b.Status),
						b.Step,
						b.UpdatedAt,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Name", "Type", "Column", "Step", "Updated"},
					rows, 1))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by column (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit batches as JSON")
	return cmd
}

func newBatchShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a batch with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchDescribe(id)
				if err != nil {
					return fmt.Errorf("describe batch: %w", err)
				}
				if asJSON {
					return printJSON(stdout, resp.Batch)
				}
				renderBatchDetails(stdout, resp.Batch, colorize)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the batch as JSON")
	return cmd
}

func newBatchMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a batch to an adjacent column or the archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchMove(id, args[1])
				if err != nil {
					return fmt.Errorf("move batch: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if !resp.Result.Moved {
					fmt.Fprintf(stdout, "Batch %d already in %s\n", id, statusLabel(resp.Result.To))
					return nil
				}
				fmt.Fprintf(stdout, "Moved batch %d: %s -> %s\n",
					id, statusLabel(resp.Result.From), statusLabel(resp.Result.To))
				return nil
			})
		},
	}
}

func newBatchTargetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "targets <id>",
		Short: "Show the columns a batch may move to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchTargets(id)
				if err != nil {
					return fmt.Errorf("fetch targets: %w", err)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Batch %d is in %s\n", id, statusLabel(resp.Targets.From))
				for _, target := range resp.Targets.Targets {
					fmt.Fprintf(stdout, "  -> %s\n", statusLabel(target))
				}
				return nil
			})
		},
	}
}

func newBatchSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Edit an autosaved batch field",
		Long: "Edit an autosaved batch field. The edit is applied in the daemon's\n" +
			"editing session and persisted after the settle delay; use\n" +
			"`reelflow batch close` to flush immediately.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FieldSet(id, args[1], args[2])
				if err != nil {
					return fmt.Errorf("set field: %w", err)
				}
				if resp.Accepted {
					fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s edit for batch %d\n", args[1], id)
				}
				return nil
			})
		},
	}
}

func newBatchComposeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compose <id> <target>",
		Short: "Generate copy for a batch field (creator_brief, boost_hooks, boost_copy)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Compose(id, args[1])
				if err != nil {
					return fmt.Errorf("compose: %w", err)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Generated %s for batch %d:\n\n", resp.Result.Target, id)
				fmt.Fprintln(stdout, resp.Result.Content)
				return nil
			})
		},
	}
}

func newBatchCloseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Flush pending edits and close the editing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionClose(id)
				if err != nil {
					return fmt.Errorf("close session: %w", err)
				}
				if resp.Closed {
					fmt.Fprintf(cmd.OutOrStdout(), "Closed editing session for batch %d\n", id)
				}
				return nil
			})
		},
	}
}

func newBatchDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a batch and all of its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BatchDelete(id)
				if err != nil {
					return fmt.Errorf("delete batch: %w", err)
				}
				if resp.Deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %d\n", id)
				}
				return nil
			})
		},
	}
}

func renderBatchDetails(stdout io.Writer, b api.Batch, colorize bool) {
	header := fmt.Sprintf("Batch %d: %s", b.ID, b.Name)
	for _, line := range renderSectionHeader(header, colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Column", statusInfo, statusLabel(b.Status), colorize))
	fmt.Fprintln(stdout, renderStatusLine("Step", statusInfo, b.Step, colorize))
	if b.BatchType != "" {
		fmt.Fprintln(stdout, renderStatusLine("Type", statusInfo, b.BatchType, colorize))
	}

	if status, ok := batch.ParseStatus(b.Status); ok {
		fmt.Fprintln(stdout, "\nProgress:")
		for _, step := range batch.AllSteps() {
			marker := " "
			switch {
			case batch.IsStepUnlocked(step, status):
				marker = ">"
			case batch.IsStageComplete(step, status):
				marker = "x"
			}
			fmt.Fprintf(stdout, "  [%s] %s\n", marker, statusLabel(string(step)))
		}
	}

	for _, field := range []struct {
		label string
		value string
	}{
		{"Idea", b.Idea},
		{"Creator brief", b.CreatorBrief},
		{"Shotlist", b.Shotlist},
		{"Brief", b.Brief},
		{"Main messaging", b.MainMessaging},
		{"Learnings", b.Learnings},
		{"Boost hooks", b.BoostHooks},
		{"Boost copy", b.BoostCopy},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		fmt.Fprintf(stdout, "\n%s:\n%s\n", field.label, field.value)
	}

	if len(b.Items) == 0 {
		fmt.Fprintln(stdout, "\nNo items")
		return
	}
	rows := make([][]string, 0, len(b.Items))
	for _, item := range b.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.ID),
			statusLabel(item.Status),
			truncate(item.Script, 48),
			truncate(item.Notes, 32),
			item.VideoURL,
		})
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, renderTable(
		[]string{"Item", "Status", "Script", "Notes", "Video"},
		rows, 1))
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func normalizeStatuses(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}

func parseBatchID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid batch id %q", arg)
	}
	return id, nil
}
