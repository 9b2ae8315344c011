package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		url      string
		token    string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save DKAN site credentials",
		Long: `Save a DKAN site URL and credentials to the CLI configuration.

Provide either a token or a username. When a username is given without a
password, the password is read from the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return ErrNoURLConfigured
			}

			if username != "" && password == "" {
				_, _ = os.Stdout.WriteString("Password: ")

				passwordBytes, err := term.ReadPassword(syscall.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(passwordBytes)

				_, _ = os.Stdout.WriteString("\n")
			}

			viper.Set("url", url)
			viper.Set("token", token)
			viper.Set("username", username)
			viper.Set("password", password)

			// Verify the credentials work before persisting them
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Schemas().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to reach %s: %w", url, err)
			}

			err = saveConfig()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in to %s\n", url)

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "DKAN site URL (required)")
	cmd.Flags().StringVar(&token, "token", "", "authentication token")
	cmd.Flags().StringVar(&username, "username", "", "basic auth username")
	cmd.Flags().StringVar(&password, "password", "", "basic auth password")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func saveConfig() error {
	err := viper.WriteConfig()
	if err == nil {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	path := filepath.Join(home, ".dkan", "config.yml")

	err = viper.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
