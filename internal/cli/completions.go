package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// completeTaskIDs returns a completion function that lists task ids,
// optionally restricted to one status. Shell completion runs in its own
// process, so the store is fetched before reading.
func completeTaskIDs(only models.TaskStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if Store == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		snap, err := Store.Load(cmd.Context(), models.TaskQuery{IncludeCompleted: true})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var ids []string
		for _, task := range snap.Sorted {
			if only != "" && task.Status != only {
				continue
			}
			if toComplete == "" || strings.HasPrefix(task.ID, toComplete) {
				// Include the name as a description for better UX.
				ids = append(ids, task.ID+"\t"+task.DisplayName())
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
