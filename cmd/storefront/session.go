package main

import (
	"github.com/spf13/cobra"

	"github.com/utafrali/shopease/internal/domain"
)

func newLoginCmd(c *cli) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.core.Services.Session.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			renderSession(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the persisted session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderSession(cmd.OutOrStdout(), c.core.Services.Session.Logout(cmd.Context()))
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session token is persisted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderSession(cmd.OutOrStdout(), c.core.Services.Session.Session())
			return nil
		},
	}
}
