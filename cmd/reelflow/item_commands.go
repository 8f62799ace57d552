package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

func newItemCommand(ctx *commandContext) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage batch items",
	}

	itemCmd.AddCommand(newItemAddCommand(ctx))
	itemCmd.AddCommand(newItemSetCommand(ctx))
	itemCmd.AddCommand(newItemRemoveCommand(ctx))

	return itemCmd
}

func newItemAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <batch-id>",
		Short: "Add an empty item to a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemAdd(batchID)
				if err != nil {
					return fmt.Errorf("add item: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d to batch %d\n", resp.Item.ID, batchID)
				return nil
			})
		},
	}
}

func newItemSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <batch-id> <item-id> <field> <value>",
		Short: "Edit an autosaved item field",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemFieldSet(batchID, itemID, args[2], args[3])
				if err != nil {
					return fmt.Errorf("set item field: %w", err)
				}
				if resp.Accepted {
					fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s edit for item %d\n", args[2], itemID)
				}
				return nil
			})
		},
	}
}

func newItemRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <batch-id> <item-id>",
		Short: "Remove one item from a batch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseBatchID(args[0])
			if err != nil {
				return err
			}
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemRemove(batchID, itemID)
				if err != nil {
					return fmt.Errorf("remove item: %w", err)
				}
				if resp.Removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d from batch %d\n", itemID, batchID)
				}
				return nil
			})
		},
	}
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}
