package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"portfolio/content"
	"portfolio/markdown"
	"portfolio/models"
)

type postUpserter interface {
	UpsertPost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
}

func newImportPostsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-posts <dir>",
		Short: "Import markdown files with front matter as blog posts",
		Long: "Reads every .md and .markdown file under dir. Posts are matched by slug, " +
			"so re-running the import updates existing posts instead of duplicating them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				posts, err := loadPosts(args[0])
				if err != nil {
					return err
				}
				for _, p := range posts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Status, p.Title)
				}
				return nil
			}

			db, log, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := importPosts(cmd.Context(), db, args[0], log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d posts\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse files and list the posts without writing")
	return cmd
}

func importPosts(ctx context.Context, store postUpserter, dir string, log *slog.Logger) (int, error) {
	posts, err := loadPosts(dir)
	if err != nil {
		return 0, err
	}

	for i, p := range posts {
		saved, err := store.UpsertPost(ctx, p)
		if err != nil {
			return i, fmt.Errorf("failed to import %s: %w", p.ID, err)
		}
		log.Info("post imported", "id", saved.ID, "status", saved.Status)
	}
	return len(posts), nil
}

// loadPosts parses every markdown file under dir, in path order.
func loadPosts(dir string) ([]*models.BlogPost, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			if !d.IsDir() {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	sort.Strings(files)

	seen := make(map[string]string, len(files))
	posts := make([]*models.BlogPost, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		doc, err := markdown.ParseDocument(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		post, err := postFromDocument(doc, file)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[post.ID]; ok {
			return nil, fmt.Errorf("%s: slug %q already used by %s", file, post.ID, prev)
		}
		seen[post.ID] = file
		posts = append(posts, post)
	}
	return posts, nil
}

// postFromDocument maps front matter onto a post. The slug falls back to the
// title and then to the file name.
func postFromDocument(doc *markdown.Document, file string) (*models.BlogPost, error) {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = base
	}

	id := strings.TrimSpace(doc.Slug)
	if id == "" {
		id = content.Slugify(title)
	}
	if id == "" {
		id = content.Slugify(base)
	}
	if !content.IsValidSlug(id) {
		return nil, fmt.Errorf("%s: invalid slug %q", file, id)
	}
	if doc.Body == "" {
		return nil, fmt.Errorf("%s: empty body", file)
	}

	return &models.BlogPost{
		ID:            id,
		Title:         title,
		Category:      strings.TrimSpace(doc.Category),
		Excerpt:       strings.TrimSpace(doc.Excerpt),
		Content:       doc.Body,
		Tags:          doc.Tags,
		CoverImageURL: strings.TrimSpace(doc.CoverImageURL),
		Status:        doc.PostStatus(),
		ReadTime:      content.ReadTime(doc.Body),
		CreatedAt:     doc.Date,
	}, nil
}

type subscriberImporter interface {
	ImportSubscribers(ctx context.Context, emails []string) (int, error)
}

func newImportSubscribersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-subscribers <file>",
		Short: "Import newsletter subscribers, one address per line (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			db, log, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			inserted, invalid, err := importSubscribers(cmd.Context(), db, r)
			for _, line := range invalid {
				log.Warn("skipped invalid address", "value", line)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new subscribers (%d skipped as invalid)\n", inserted, len(invalid))
			return nil
		},
	}
}

func importSubscribers(ctx context.Context, store subscriberImporter, r io.Reader) (int, []string, error) {
	emails, invalid, err := readEmails(r)
	if err != nil {
		return 0, invalid, err
	}
	inserted, err := store.ImportSubscribers(ctx, emails)
	return inserted, invalid, err
}

// readEmails returns normalized, de-duplicated addresses. Blank lines and
// lines starting with # are ignored; malformed addresses are returned separately.
func readEmails(r io.Reader) ([]string, []string, error) {
	validate := validator.New()

	var valid, invalid []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		email := content.NormalizeEmail(line)
		if err := validate.Var(email, "required,email,max=255"); err != nil {
			invalid = append(invalid, line)
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		valid = append(valid, email)
	}
	if err := scanner.Err(); err != nil {
		return nil, invalid, fmt.Errorf("failed to read addresses: %w", err)
	}
	return valid, invalid, nil
}
