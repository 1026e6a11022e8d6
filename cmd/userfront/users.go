package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/userfront/userfront/client"
)

// commandTimeout bounds a single CLI round trip; the client's own timeout
// still applies per request.
const commandTimeout = 15 * time.Second

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, show and create users",
	}
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	cmd.AddCommand(newListUsersCmd(opts))
	cmd.AddCommand(newGetUserCmd(opts))
	cmd.AddCommand(newCreateUserCmd(opts))
	return cmd
}

func newListUsersCmd(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			c, closeFn, err := openClient(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			start := time.Now()
			users, err := c.ListUsers(ctx)
			elapsed := time.Since(start)
			if err != nil {
				log.Error().Err(err).Dur("elapsed", elapsed).Msg("list users failed")
				return err
			}
			users = client.FilterUsers(users, query)
			log.Debug().Int("count", len(users)).Dur("elapsed", elapsed).Msg("list users completed")

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, users)
			}
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found")
				return nil
			}
			for _, u := range users {
				printUserLine(out, u)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show users whose id or names contain this text")
	return cmd
}

func newGetUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			c, closeFn, err := openClient(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			user, err := c.GetUser(ctx, args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("user %s not found", args[0])
				}
				return err
			}
			dbg(user)

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, user)
			}
			fmt.Fprintf(out, "ID:         %s\n", user.ID)
			fmt.Fprintf(out, "First Name: %s\n", orDash(user.FirstName))
			fmt.Fprintf(out, "Last Name:  %s\n", orDash(user.LastName))
			return nil
		},
	}
}

func newCreateUserCmd(opts *rootOptions) *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.NewUser{FirstName: firstName, LastName: lastName}
			if err := client.ValidateNewUser(req); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			c, closeFn, err := openClient(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			log.Debug().Str("first_name", firstName).Str("last_name", lastName).Msg("creating user")
			user, err := c.CreateUser(ctx, req)
			if err != nil {
				log.Error().Err(err).Msg("create user failed")
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, user)
			}
			fmt.Fprintf(out, "User created: %s - %s %s\n", user.ID, user.FirstName, user.LastName)
			return nil
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (required)")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func printUserLine(w io.Writer, u client.User) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", orDash(u.ID), orDash(u.FirstName), orDash(u.LastName))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
