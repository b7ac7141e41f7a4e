package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show planner activity counters",
	Long: `Show activity counters tallied from the local event log.

The --since flag accepts a duration like 24h, 7d, or 4w.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized")
		}

		sinceFlag, _ := cmd.Flags().GetString("since")
		window, err := parseSince(sinceFlag)
		if err != nil {
			return err
		}

		m, err := MetricsCalc.Calculate(time.Now().Add(-window))
		if err != nil {
			return fmt.Errorf("reading metrics: %w", err)
		}

		fmt.Printf("Activity over the last %s:\n", sinceFlag)
		fmt.Printf("  created:   %d\n", m.TasksCreated)
		fmt.Printf("  completed: %d\n", m.TasksCompleted)
		fmt.Printf("  reopened:  %d\n", m.TasksReopened)
		fmt.Printf("  edited:    %d\n", m.TasksEdited)
		fmt.Printf("  deleted:   %d\n", m.TasksDeleted)
		fmt.Printf("  sign-ins:  %d\n", m.SignIns)
		fmt.Printf("  events:    %d\n", m.EventCount)
		if m.OldestEvent != nil && m.NewestEvent != nil {
			fmt.Printf("  span:      %s to %s\n",
				m.OldestEvent.Format(time.RFC3339),
				m.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

// parseSince parses durations like "24h", "7d", and "4w". Days and
// weeks are not understood by time.ParseDuration, so they are expanded
// here.
func parseSince(value string) (time.Duration, error) {
	switch {
	case strings.HasSuffix(value, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	case strings.HasSuffix(value, "w"):
		weeks, err := strconv.Atoi(strings.TrimSuffix(value, "w"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	default:
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return d, nil
	}
}

func init() {
	metricsCmd.Flags().String("since", "7d", "Window to tally, e.g. 24h, 7d, 4w")
	rootCmd.AddCommand(metricsCmd)
}
