package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/pkg/models"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Long: `Create a task with a deadline.

Examples:
  fpl add "Pay bills" --due 2025-04-01
  fpl add "Book dentist" --due 2025-04-10 --desc "ask about Saturday slots"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		due, _ := cmd.Flags().GetString("due")
		desc, _ := cmd.Flags().GetString("desc")
		priority, _ := cmd.Flags().GetInt("priority")

		err := Store.Create(cmd.Context(), models.CreateTaskInput{
			Name:        args[0],
			Description: desc,
			Deadline:    due,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}

		fmt.Printf("Added %q, due %s\n", args[0], due)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:               "edit <task-id>",
	Short:             "Edit a task's name, description, or deadline",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(""),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		// A one-shot invocation starts with an empty store; fetch
		// before looking the task up.
		id := args[0]
		if _, err := Store.Load(cmd.Context(), models.TaskQuery{IncludeCompleted: true}); err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		current, ok := findTask(id)
		if !ok {
			return fmt.Errorf("task %s not found", id)
		}

		input := models.EditTaskInput{
			Name:        current.Name,
			Description: current.Description,
			Deadline:    current.Deadline,
		}
		if cmd.Flags().Changed("name") {
			input.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("desc") {
			input.Description, _ = cmd.Flags().GetString("desc")
		}
		if cmd.Flags().Changed("due") {
			input.Deadline, _ = cmd.Flags().GetString("due")
		}

		if err := Store.Update(cmd.Context(), id, input); err != nil {
			return fmt.Errorf("editing task %s: %w", id, err)
		}

		fmt.Printf("Updated %s\n", id)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:               "done <task-id>",
	Short:             "Mark a task completed",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(models.StatusInProgress),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		if err := Store.ChangeStatus(cmd.Context(), args[0], models.StatusCompleted); err != nil {
			return fmt.Errorf("completing task %s: %w", args[0], err)
		}
		fmt.Printf("Completed %s\n", args[0])
		return nil
	},
}

var reopenCmd = &cobra.Command{
	Use:               "reopen <task-id>",
	Short:             "Reopen a completed task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(models.StatusCompleted),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		if err := Store.ChangeStatus(cmd.Context(), args[0], models.StatusInProgress); err != nil {
			return fmt.Errorf("reopening task %s: %w", args[0], err)
		}
		fmt.Printf("Reopened %s\n", args[0])
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:               "rm <task-id>",
	Short:             "Delete a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(""),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		if err := Store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting task %s: %w", args[0], err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// findTask looks a task up in the current snapshot.
func findTask(id string) (models.Task, bool) {
	for _, t := range Store.Snapshot().Sorted {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func init() {
	addCmd.Flags().String("due", "", "Deadline as YYYY-MM-DD (required)")
	addCmd.Flags().String("desc", "", "Optional description")
	addCmd.Flags().Int("priority", 0, "Priority from 1 (highest) to 5")
	_ = addCmd.MarkFlagRequired("due")

	editCmd.Flags().String("name", "", "New task name")
	editCmd.Flags().String("desc", "", "New description")
	editCmd.Flags().String("due", "", "New deadline as YYYY-MM-DD")

	rootCmd.AddCommand(addCmd, editCmd, doneCmd, reopenCmd, rmCmd)
}
