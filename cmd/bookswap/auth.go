package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Choose a password: ")
			if err != nil {
				return err
			}

			if err := a.session.Signup(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Println("Account created. Log in with `bookswap login`.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", a.session.User().Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Restore(cmd.Context())
			a.session.Logout(cmd.Context())
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}
			user := a.session.User()
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}
