package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coolbeans/nomiki/pkg/types"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and their subcategories",
		Long: `List every category with its subcategories and article counts.

Example:
  nomiki categories
  nomiki categories --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			snapshot := a.store.Snapshot()
			out := cmd.OutOrStdout()

			if asJSON {
				return printJSON(out, snapshot)
			}

			for _, category := range snapshot.Categories() {
				headingColor.Fprintln(out, category)
				for _, sub := range snapshot.Subcategories(category) {
					count := len(snapshot.Articles(category, sub))
					fmt.Fprintf(out, "  %s ", sub)
					dimColor.Fprintf(out, "(%d)\n", count)
				}
			}
			fmt.Fprintf(out, "\n%d articles\n", snapshot.Len())
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the whole taxonomy as JSON")

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <category> [subcategory]",
		Short: "Show the articles of a category or subcategory",
		Long: `Show the full text of every article in a category, or in one of its
subcategories.

Example:
  nomiki show "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ"
  nomiki show "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ" "Εγκλήματα κατά της ιδιοκτησίας"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			snapshot := a.store.Snapshot()
			category := args[0]
			if !snapshot.HasCategory(category) {
				return fmt.Errorf("category not found: %s", category)
			}

			subcategories := snapshot.Subcategories(category)
			if len(args) == 2 {
				if !snapshot.HasSection(category, args[1]) {
					return fmt.Errorf("subcategory not found: %s / %s", category, args[1])
				}
				subcategories = args[1:]
			}

			var articles []types.Article
			for _, sub := range subcategories {
				articles = append(articles, snapshot.Articles(category, sub)...)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, articles)
			}

			current := ""
			for _, article := range articles {
				if article.Subcategory != current {
					current = article.Subcategory
					headingColor.Fprintf(out, "%s › %s\n\n", category, current)
				}
				printArticle(out, article, true)
			}
			if len(articles) == 0 {
				dimColor.Fprintln(out, "No articles.")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the articles as JSON")

	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search articles by keyword",
		Long: `Search titles, text and law citations. Matching ignores case and accents,
so "κλοπη" finds "Κλοπή".

Example:
  nomiki search κλοπη
  nomiki search "σωματική βλάβη" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			full, _ := cmd.Flags().GetBool("full")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			matches := a.store.Search(query)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, matches)
			}

			if len(matches) == 0 {
				warnColor.Fprintf(out, "No results for %q\n", query)
				return nil
			}
			okColor.Fprintf(out, "%d results for %q\n\n", len(matches), query)
			for _, m := range matches {
				dimColor.Fprintf(out, "%s › %s\n", m.Category, m.Subcategory)
				printArticle(out, types.Article{
					Title:   m.Title,
					Content: m.Content,
					Law:     m.Law,
					Penalty: m.Penalty,
				}, full)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the matches as JSON")
	cmd.Flags().Bool("full", false, "Print the full text instead of a snippet")

	return cmd
}

func refsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs [category subcategory title]",
		Short: "Show the references an article makes",
		Long: `Show the article and law references found in an article's text. Without
arguments, print a summary of the whole reference map.

Example:
  nomiki refs
  nomiki refs "ΟΠΛΑ" "Γενικά" "Άρθρο 15 - Ποινικές κυρώσεις"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected no arguments or <category> <subcategory> <title>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				stats := a.store.ReferenceStats()
				fmt.Fprintf(out, "Articles:   %d\n", stats.Articles)
				fmt.Fprintf(out, "References: %d\n", stats.Tokens)
				fmt.Fprintf(out, "Links:      %d\n", stats.Edges)
				return nil
			}

			if _, ok := a.store.Snapshot().Find(args[0], args[1], args[2]); !ok {
				return fmt.Errorf("article not found: %s", types.ArticleID{Category: args[0], Subcategory: args[1], Title: args[2]})
			}
			refs := a.store.References(args[0], args[1], args[2])
			if len(refs) == 0 {
				dimColor.Fprintln(out, "No references.")
				return nil
			}
			for _, ref := range refs {
				fmt.Fprintf(out, "  %s\n", ref)
			}
			return nil
		},
	}

	return cmd
}
