package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, most recent first",
	Long: `List tasks in a date window, most recent first.

Without flags the current month's active tasks are shown. Use
--completed to see only finished tasks, or --all for both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		completedOnly, _ := cmd.Flags().GetBool("completed")
		all, _ := cmd.Flags().GetBool("all")

		snap, err := Store.Load(cmd.Context(), models.TaskQuery{
			FromDate:         from,
			ToDate:           to,
			IncludeCompleted: completedOnly || all,
		})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		tasks := snap.Active
		switch {
		case completedOnly:
			tasks = snap.Completed
		case all:
			tasks = snap.Sorted
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		fmt.Printf("  %-38s %-12s %-12s %s\n", "ID", "DUE", "STATUS", "NAME")
		for _, t := range tasks {
			date := t.Deadline
			if t.Completed {
				date = t.CompletionDate
			}
			fmt.Printf("  %-38s %-12s %-12s %s\n", t.ID, date, t.Status, t.DisplayName())
		}
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:   "day <date>",
	Short: "Show the tasks placed on one calendar day",
	Long: `Show the tasks placed on one calendar day: active tasks due that day
plus tasks completed that day.

Example:
  fpl day 2025-04-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		date := args[0]
		if !dates.Valid(date) {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
		}
		// The service defaults an empty window to the current month;
		// ask for the requested day explicitly.
		if _, err := Store.Load(cmd.Context(), models.TaskQuery{
			FromDate:         date,
			ToDate:           date,
			IncludeCompleted: true,
		}); err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		tasks := Store.Snapshot().TasksOn(date)
		if len(tasks) == 0 {
			fmt.Printf("Nothing on %s.\n", date)
			return nil
		}

		fmt.Printf("%s:\n", date)
		for _, t := range tasks {
			marker := "[ ]"
			if t.Completed {
				marker = "[x]"
			}
			fmt.Printf("  %s %s", marker, t.DisplayName())
			if t.Description != "" {
				fmt.Printf(" - %s", t.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("from", "", "Window start as YYYY-MM-DD (defaults to the current month)")
	listCmd.Flags().String("to", "", "Window end as YYYY-MM-DD")
	listCmd.Flags().Bool("completed", false, "Show only completed tasks")
	listCmd.Flags().Bool("all", false, "Show active and completed tasks")

	rootCmd.AddCommand(listCmd, dayCmd)
}
