package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bookswap/client"
)

func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage swap requests",
	}
	cmd.AddCommand(
		newRequestsListCmd(a),
		newRequestsSendCmd(a),
		newRequestsResolveCmd(a, "accept", "accepted", "Accept an incoming request", a.requests.Accept),
		newRequestsResolveCmd(a, "decline", "declined", "Decline an incoming request", a.requests.Decline),
		newRequestsResolveCmd(a, "cancel", "cancelled", "Cancel one of your pending requests", a.requests.Cancel),
	)
	return cmd
}

func printRequests(label string, requests []client.Request) {
	fmt.Printf("%s (%d)\n", label, len(requests))
	if len(requests) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBOOK\tFROM\tSTATUS")
	for _, r := range requests {
		fmt.Fprintf(w, "%s\t%s by %s\t%s\t%s\n", r.ID, r.Book.Title, r.Book.Author, r.Requester.Name, r.Status)
	}
	w.Flush()
}

func newRequestsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show incoming and outgoing requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			if err := a.requests.Refresh(cmd.Context()); err != nil {
				return err
			}

			printRequests("Incoming", a.requests.Incoming())
			fmt.Println()
			printRequests("Outgoing", a.requests.Outgoing())
			return nil
		},
	}
}

func newRequestsSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <book-id>",
		Short: "Request a book from its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			bookID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid book ID %q", args[0])
			}

			if err := a.requests.Create(cmd.Context(), bookID); err != nil {
				return err
			}
			fmt.Println("Request sent.")
			return nil
		},
	}
}

func newRequestsResolveCmd(a *app, verb, done, short string, action func(ctx context.Context, id uuid.UUID) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid request ID %q", args[0])
			}

			if err := action(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Request %s.\n", done)
			return nil
		},
	}
}
