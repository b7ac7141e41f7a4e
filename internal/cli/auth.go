package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/internal/service"
	"github.com/kvasnytsia/famplan/pkg/models"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the planner service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if AuthSvc == nil || Sessions == nil {
			return fmt.Errorf("auth not initialized (offline mode has no accounts)")
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		result, err := AuthSvc.SignIn(cmd.Context(), service.Credentials{
			Email:    args[0],
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("signing in: %w", err)
		}

		if err := Sessions.Save(models.Session{
			Token:    result.Token,
			Email:    result.User.Email,
			Username: result.User.Username,
		}); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		if EventLog != nil {
			_ = EventLog.LogEvent("auth.signed_in", map[string]any{"email": result.User.Email})
		}

		fmt.Printf("Signed in as %s\n", result.User.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create a planner account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if AuthSvc == nil {
			return fmt.Errorf("auth not initialized (offline mode has no accounts)")
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		age, _ := cmd.Flags().GetInt("age")
		avatar, _ := cmd.Flags().GetString("avatar")

		err = AuthSvc.SignUp(cmd.Context(), service.Registration{
			Username: args[0],
			Email:    args[1],
			Password: password,
			Age:      age,
			AvatarID: avatar,
		})
		if err != nil {
			return fmt.Errorf("registering: %w", err)
		}

		fmt.Printf("Account created for %s. Run 'fpl login %s' to sign in.\n", args[0], args[1])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sessions == nil {
			return fmt.Errorf("session store not initialized")
		}
		if err := Sessions.Clear(); err != nil {
			return fmt.Errorf("signing out: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var forgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if AuthSvc == nil {
			return fmt.Errorf("auth not initialized (offline mode has no accounts)")
		}
		if err := AuthSvc.ForgotPassword(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("requesting password reset: %w", err)
		}
		fmt.Printf("Password reset requested for %s. Check your inbox.\n", args[0])
		return nil
	},
}

// promptPassword reads a password from stdin.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	raw, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimSpace(raw)
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func init() {
	registerCmd.Flags().Int("age", 0, "Account holder's age")
	registerCmd.Flags().String("avatar", "", "Avatar id")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, forgotCmd)
}
