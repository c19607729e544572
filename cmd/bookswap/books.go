package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bookswap/client"
)

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage book listings",
	}
	cmd.AddCommand(
		newBooksListCmd(a),
		newBooksShowCmd(a),
		newBooksAddCmd(a),
		newBooksEditCmd(a),
		newBooksRemoveCmd(a),
	)
	return cmd
}

func printBooks(books []client.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCONDITION")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Condition)
	}
	w.Flush()
}

func newBooksListCmd(a *app) *cobra.Command {
	var mine bool
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available books",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			scope := client.ScopeAll
			if mine {
				scope = client.ScopeMe
			}

			books, err := a.catalog.List(cmd.Context(), scope)
			if err != nil {
				return err
			}

			books = client.Search(books, search)
			if len(books) == 0 {
				fmt.Println("No books found.")
				return nil
			}
			printBooks(books)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "only my own listings")
	cmd.Flags().StringVar(&search, "search", "", "filter by title or author")
	return cmd
}

func newBooksShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid book ID %q", args[0])
			}

			book, err := a.catalog.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("%s by %s (%s)\n", book.Title, book.Author, book.Condition)
			if book.Description != "" {
				fmt.Printf("\n%s\n", book.Description)
			}
			if book.Owner != nil {
				fmt.Printf("\nListed by %s <%s>\n", book.Owner.Name, book.Owner.Email)
			}
			return nil
		},
	}
}

func newBooksAddCmd(a *app) *cobra.Command {
	var title, author, condition, description, imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a book you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			var image *client.ImageFile
			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return err
				}
				defer f.Close()
				image = &client.ImageFile{Name: filepath.Base(imagePath), Reader: f}
			}

			fields := client.BookFields{
				Title:       title,
				Author:      author,
				Condition:   condition,
				Description: description,
			}
			book, err := a.catalog.Create(cmd.Context(), fields, image)
			if err != nil {
				return err
			}

			fmt.Printf("Listed %q (%s).\n", book.Title, book.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&condition, "condition", "Good", "condition: New, Like New, Good, Fair, Poor")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a cover image")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("author")
	return cmd
}

func newBooksEditCmd(a *app) *cobra.Command {
	var title, author, condition, description string

	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Edit one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid book ID %q", args[0])
			}

			update := client.BookUpdate{}
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("author") {
				update.Author = &author
			}
			if cmd.Flags().Changed("condition") {
				update.Condition = &condition
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}

			book, err := a.catalog.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			fmt.Printf("Updated %q.\n", book.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&condition, "condition", "", "condition: New, Like New, Good, Fair, Poor")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	return cmd
}

func newBooksRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <book-id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid book ID %q", args[0])
			}

			if err := a.catalog.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Book deleted.")
			return nil
		},
	}
}
