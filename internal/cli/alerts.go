package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/internal/observability"
	"github.com/kvasnytsia/famplan/pkg/models"
)

var (
	alertHighStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	alertMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	alertLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show overdue and due-soon warnings",
	Long: `Show alerts derived from the current task list: overdue tasks,
tasks due within the configured lookahead, and active-list pile-up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized")
		}

		if _, err := Store.Load(cmd.Context(), models.TaskQuery{}); err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}

		alerts := AlertEngine.Evaluate(time.Now())
		if len(alerts) == 0 {
			fmt.Println("No alerts.")
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("%s %s\n", renderSeverity(a.Severity), a.Message)
		}

		if notify, _ := cmd.Flags().GetBool("notify"); notify {
			if Notifier == nil {
				return fmt.Errorf("no webhook configured (set alerts.slack_webhook_url in .famplanrc)")
			}
			if err := Notifier.Notify(alerts); err != nil {
				return fmt.Errorf("sending alerts: %w", err)
			}
			fmt.Printf("Sent %d alert(s) to the configured webhook.\n", len(alerts))
		}
		return nil
	},
}

func renderSeverity(s observability.AlertSeverity) string {
	label := fmt.Sprintf("[%s]", s)
	switch s {
	case observability.SeverityHigh:
		return alertHighStyle.Render(label)
	case observability.SeverityMedium:
		return alertMediumStyle.Render(label)
	default:
		return alertLowStyle.Render(label)
	}
}

func init() {
	alertsCmd.Flags().Bool("notify", false, "Also push the alerts to the configured Slack webhook")
	rootCmd.AddCommand(alertsCmd)
}
