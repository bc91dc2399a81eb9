package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coolbeans/nomiki/pkg/inbox"
	"github.com/coolbeans/nomiki/pkg/lawdb"
	"github.com/coolbeans/nomiki/pkg/store"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file|dir>...",
		Short: "Add articles from PDF or text documents",
		Long: `Extract articles from documents and add them to the corpus. The category
is inferred from each file name. Directories are scanned with the inbox
patterns (default *.pdf and *.txt).

Example:
  nomiki upload "Ποινικός-Κώδικας.pdf"
  nomiki upload ./documents`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}

			var paths []string
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("source file not found: %s", arg)
				}
				if !info.IsDir() {
					paths = append(paths, arg)
					continue
				}
				found, err := inbox.Scan(arg, a.config.Inbox.Patterns)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no documents found")
			}

			files, err := inbox.ReadFiles(paths)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			bar := newProgressBar(cmd.ErrOrStderr(), len(files), "Uploading")

			var reports []*store.UploadReport
			failed := 0
			for _, f := range files {
				report, err := a.store.Upload(ctx, []store.File{f})
				if err != nil {
					return err
				}
				reports = append(reports, report)
				if !report.OK() {
					failed++
				}
				_ = bar.Add(1)
			}

			for _, report := range reports {
				for _, doc := range report.Documents {
					if doc.Articles == 0 {
						warnColor.Fprintf(out, "! %s: no articles found\n", doc.Name)
						continue
					}
					okColor.Fprintf(out, "✓ %s: %d articles → %s › %s\n", doc.Name, doc.Articles, doc.Category, doc.Subcategory)
				}
				for _, f := range report.Failed {
					failColor.Fprintf(out, "✗ %s: %s\n", f.Name, f.Error)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents could not be processed", failed, len(files))
			}
			return nil
		},
	}

	return cmd
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <category> <subcategory> [title]",
		Short: "Delete an article or a whole subcategory",
		Long: `Delete an article, or a subcategory with all its articles. The deletion is
refused when other articles refer to what would be removed; --force
deletes anyway.

Example:
  nomiki delete "ΟΠΛΑ" "Γενικά" "Άρθρο 1 - Ορισμοί"
  nomiki delete "ΚΩΔΙΚΑΣ ΟΔΙΚΗΣ ΚΥΚΛΟΦΟΡΙΑΣ" "Γενικά" --force`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			var d *store.Deletion
			if len(args) == 3 {
				d, err = a.store.DeleteArticle(args[0], args[1], args[2], force)
			} else {
				d, err = a.store.DeleteSection(args[0], args[1], force)
			}

			out := cmd.OutOrStdout()
			if errors.Is(err, store.ErrUnsafeRemoval) {
				warnColor.Fprintf(out, "Cannot delete %s; it is referenced by:\n", d.Target)
				for _, b := range d.Blockers {
					fmt.Fprintf(out, "  - %s\n", b)
				}
				return fmt.Errorf("deletion refused, use --force to delete anyway")
			}
			if err != nil {
				return err
			}

			if d.Overridden {
				warnColor.Fprintf(out, "Deleted %s, leaving %d dangling references\n", d.Target, len(d.Blockers))
			} else {
				okColor.Fprintf(out, "Deleted %s\n", d.Target)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Delete even when other articles refer to the target")

	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh laws from their sources",
		Long: `Re-extract every configured source and replace the matching categories in
the law database. Sources are local documents or web pages. A category
whose sources yield no articles keeps its current contents.

Example:
  nomiki update
  nomiki update --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				db, err := lawdb.Load(cfg.LawDatabase)
				if err != nil {
					return err
				}
				updates := db.Updates()
				if len(updates) == 0 {
					dimColor.Fprintln(out, "No updates recorded.")
				}
				for _, u := range updates {
					fmt.Fprintf(out, "%s  %s\n", u.UpdatedAt.Local().Format("2006-01-02 15:04"), u.Category)
				}
				return nil
			}

			extractor, err := cfg.Extractor()
			if err != nil {
				return err
			}
			updater := lawdb.NewUpdater(cfg.Sources(), logger)
			updater.Extractor = extractor
			updater.Fetcher = lawdb.NewHTMLFetcher(cfg.FetcherConfig())

			_, results, err := updater.UpdateFile(cmd.Context(), cfg.LawDatabase)
			for _, r := range results {
				switch {
				case r.Updated:
					okColor.Fprintf(out, "✓ %s: %d articles\n", r.Category, r.Articles)
				case len(r.Failed) == r.Sources:
					failColor.Fprintf(out, "✗ %s: no source could be read\n", r.Category)
				default:
					warnColor.Fprintf(out, "! %s: no articles found\n", r.Category)
				}
			}
			return err
		},
	}

	cmd.Flags().Bool("list", false, "List when each category was last updated")

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Upload documents dropped into a directory",
		Long: `Watch a directory (default: the configured inbox) and upload every new or
changed document that matches the inbox patterns. Stop with Ctrl-C.

Example:
  nomiki watch
  nomiki watch ~/Downloads/laws`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			dir := a.config.Inbox.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create inbox directory: %w", err)
			}

			out := cmd.OutOrStdout()
			w, err := inbox.New(inbox.Config{
				Dir:      dir,
				Patterns: a.config.Inbox.Patterns,
				Debounce: a.config.Inbox.Debounce,
				Logger:   a.logger,
				OnUpload: func(path string, report *store.UploadReport, err error) {
					switch {
					case err != nil:
						failColor.Fprintf(out, "✗ %s: %v\n", path, err)
					case report.OK():
						okColor.Fprintf(out, "✓ %s: %d articles\n", path, report.Articles)
					default:
						warnColor.Fprintf(out, "! %s: not added\n", path)
					}
				},
			}, a.store)
			if err != nil {
				return err
			}

			headingColor.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", dir)
			if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	return cmd
}
