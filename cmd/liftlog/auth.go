package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/client"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login USER",
	Short: "Store credentials for the liftlog server",
	Long: `Store credentials for the liftlog server and check them with one request.

The password is taken from --password, then LIFTLOG_PASSWORD, then read
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass := loginPassword
		if pass == "" {
			pass = os.Getenv("LIFTLOG_PASSWORD")
		}
		if pass == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			pass = strings.TrimRight(line, "\r\n")
		}

		if err := app.gate.Login(args[0], pass); err != nil {
			return err
		}
		if _, err := app.client.ListHistory(cmd.Context()); err != nil {
			if client.IsAuthError(err) {
				return fmt.Errorf("server rejected the credentials: %w", err)
			}
			return fmt.Errorf("credentials saved but the server is unreachable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s logged in as %s\n", color.GreenString("✓"), args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.gate.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prefer LIFTLOG_PASSWORD)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
