package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

const daemonStartTimeout = 10 * time.Second

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the reelflow daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if client, err := ctx.dialClient(); err == nil {
				client.Close()
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")
			if err := launchDaemon(ctx, exe); err != nil {
				return err
			}
			if err := waitForSocket(ctx, daemonStartTimeout); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon started")
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the reelflow daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			client, err := ctx.dialClient()
			if err != nil {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			defer client.Close()

			resp, err := client.Stop()
			if err != nil {
				return fmt.Errorf("stop daemon: %w", err)
			}
			if !resp.Stopped {
				fmt.Fprintln(stdout, "Stop request sent")
				return nil
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				runningKind := statusWarn
				if status.Running {
					runningKind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine("Running", runningKind, yesNo(status.Running), colorize))
				fmt.Fprintln(stdout, renderStatusLine("PID", statusInfo, fmt.Sprintf("%d", status.PID), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Open sessions", statusInfo, fmt.Sprintf("%d", status.Sessions), colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Pipeline", colorize) {
					fmt.Fprintln(stdout, line)
				}
				rows := buildBoardCountRows(status.BoardCounts)
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "Board is empty")
					return nil
				}
				fmt.Fprintln(stdout, renderTable([]string{"Column", "Batches"}, rows, 2))
				return nil
			})
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func buildBoardCountRows(counts map[string]int) [][]string {
	if len(counts) == 0 {
		return nil
	}
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, []string{statusLabel(status), fmt.Sprintf("%d", counts[status])})
	}
	return rows
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	candidate := filepath.Join(filepath.Dir(exe), "reelflowd")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	found, err := exec.LookPath("reelflowd")
	if err != nil {
		return "", fmt.Errorf("locate reelflowd: %w", err)
	}
	return found, nil
}

func launchDaemon(ctx *commandContext, exe string) error {
	args := make([]string, 0, 2)
	if ctx.configFlag != nil {
		if path := strings.TrimSpace(*ctx.configFlag); path != "" {
			args = append(args, "--config", path)
		}
	}
	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return cmd.Process.Release()
}

func waitForSocket(ctx *commandContext, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ctx.dialClient()
		if err == nil {
			client.Close()
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not come up within %s", timeout)
}
