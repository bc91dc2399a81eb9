package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coolbeans/nomiki/pkg/bookmark"
	"github.com/coolbeans/nomiki/pkg/types"
	"github.com/coolbeans/nomiki/pkg/welcome"
)

func bookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage bookmarked articles",
	}

	cmd.AddCommand(bookmarkAddCmd())
	cmd.AddCommand(bookmarkRemoveCmd())
	cmd.AddCommand(bookmarkListCmd())

	return cmd
}

func bookmarkAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <subcategory> <title>",
		Short: "Bookmark an article",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			article, ok := a.store.Snapshot().Find(args[0], args[1], args[2])
			if !ok {
				return fmt.Errorf("article not found: %s", types.ArticleID{Category: args[0], Subcategory: args[1], Title: args[2]})
			}

			bookmarks, err := bookmark.Open(a.config.Bookmarks)
			if err != nil {
				return err
			}
			id := article.ID().String()
			added, err := bookmarks.Add(id, bookmark.FromArticle(article))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if added {
				okColor.Fprintf(out, "Bookmarked %s\n", id)
			} else {
				dimColor.Fprintf(out, "Already bookmarked: %s\n", id)
			}
			return nil
		},
	}
}

func bookmarkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id> | <category> <subcategory> <title>",
		Short: "Remove a bookmark",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <id> or <category> <subcategory> <title>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			id := args[0]
			if len(args) == 3 {
				id = types.ArticleID{Category: args[0], Subcategory: args[1], Title: args[2]}.String()
			}

			bookmarks, err := bookmark.Open(cfg.Bookmarks)
			if err != nil {
				return err
			}
			removed, err := bookmarks.Remove(id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("not bookmarked: %s", id)
			}
			okColor.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			return nil
		},
	}
}

func bookmarkListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			bookmarks, err := bookmark.Open(cfg.Bookmarks)
			if err != nil {
				return err
			}
			entries, err := bookmarks.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, entries)
			}
			if len(entries) == 0 {
				dimColor.Fprintln(out, "No bookmarks.")
				return nil
			}
			for _, e := range entries {
				r := e.Record
				dimColor.Fprintf(out, "%s  %s › %s\n", r.BookmarkedAt.Local().Format("2006-01-02 15:04"), r.Category, r.Subcategory)
				printArticle(out, types.Article{Title: r.Title, Content: r.Content, Law: r.Law, Penalty: r.Penalty}, false)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the bookmarks as JSON")

	return cmd
}

func welcomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "welcome",
		Short: "Show or change the welcome message",
	}

	cmd.AddCommand(welcomeShowCmd())
	cmd.AddCommand(welcomeSetCmd())
	cmd.AddCommand(welcomeDepartmentsCmd())

	return cmd
}

func welcomeShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the welcome message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			department, _ := cmd.Flags().GetString("department")

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			msg, err := welcome.NewStore(cfg.WelcomeMessages).Message(department)
			if err != nil {
				return err
			}
			headingColor.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringP("department", "d", "", "Department whose message to show")

	return cmd
}

func welcomeSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <message>",
		Short: "Set the default or a department's welcome message",
		Long: `Set the welcome message. Without --department the default message is
changed.

Example:
  nomiki welcome set "Καλωσήρθατε"
  nomiki welcome set --department "Τμήμα Τροχαίας" "Καλώς ήρθατε στην Τροχαία"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			department, _ := cmd.Flags().GetString("department")

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			messages := welcome.NewStore(cfg.WelcomeMessages)
			msg := strings.Join(args, " ")

			if department == "" {
				err = messages.SetDefault(msg)
			} else {
				err = messages.SetDepartment(department, msg)
			}
			if err != nil {
				return err
			}
			okColor.Fprintln(cmd.OutOrStdout(), "Welcome message updated")
			return nil
		},
	}

	cmd.Flags().StringP("department", "d", "", "Department to set the message for")

	return cmd
}

func welcomeDepartmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments with their own message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			departments, err := welcome.NewStore(cfg.WelcomeMessages).Departments()
			if err != nil {
				return err
			}
			for _, d := range departments {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
