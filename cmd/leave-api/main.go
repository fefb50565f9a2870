package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title                       HR Leave API
// @version                     1.0
// @description                 Employee registration, login and leave request workflow.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leave-api",
		Short:         "HR leave request API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSeedManagerCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (configured from the environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newSeedManagerCommand() *cobra.Command {
	var (
		email      string
		password   string
		firstName  string
		lastName   string
		department string
	)

	cmd := &cobra.Command{
		Use:   "seed-manager",
		Short: "Create a manager account if the email is not registered yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedManager(cmd.Context(), seedInput{
				Email:      email,
				Password:   password,
				FirstName:  firstName,
				LastName:   lastName,
				Department: department,
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Manager email")
	cmd.Flags().StringVar(&password, "password", "", "Manager password")
	cmd.Flags().StringVar(&firstName, "first-name", "Test", "Manager first name")
	cmd.Flags().StringVar(&lastName, "last-name", "Manager", "Manager last name")
	cmd.Flags().StringVar(&department, "department", "Management", "Manager department")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
