package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/config"
)

const usage = `Simple CMS Admin CLI

An operator tool that talks to the configured database and blob store directly,
acting as a superuser.

USAGE:
  admin <command> [options]

COMMANDS:
  ping                           Check database connectivity (postgres only)
  list                           List content in every status
  stats                          Count content per status
  placeholders <id> <lang,...>   Create pending translations for missing languages
  purge <id>                     Permanently remove content and its translations

ENVIRONMENT VARIABLES:
  DATABASE_URL      memory or a postgres:// connection string (default: memory)
  DB_SCHEMA         PostgreSQL schema name (default: cms)
  STORAGE_URL       memory://, file:///path or s3://bucket

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

OPTIONS (for list/stats):
  --status=<status>      Filter by status (draft, review, published, archived)
  --type=<type>          Filter by content type
  --language=<code>      Filter by language
  --author-id=<uuid>     Filter by author
  --tag=<tag>            Filter by tag (repeatable)
  --search=<text>        Match title or body
  --page=<n>             Page number (list only, default: 1)
  --page-size=<n>        Page size (list only, default: 50)
  --as=<uuid>            Principal id recorded as translator (default: nil uuid)
  --json                 Output as JSON
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Print(usage + "\n")
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := run(context.Background(), logger, command, os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "admin %s: %v\n", command, err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage+"\n")
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, logger *slog.Logger, command string, args []string, out io.Writer) error {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if command == "ping" {
		if cfg.DatabaseType != "postgres" {
			return fmt.Errorf("%w: ping needs a postgres DATABASE_URL", errUsage)
		}
		if err := config.PingPostgres(cfg.DatabaseURL, cfg.DBSchema); err != nil {
			return err
		}
		fmt.Fprintln(out, "database ok")
		return nil
	}

	rt, err := cfg.BuildService(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer rt.Close()

	return execute(ctx, rt.Service, command, args, out)
}

// options are the parsed command flags and positional arguments
type options struct {
	filter  simplecms.ListContentRequest
	as      uuid.UUID
	json    bool
	args    []string
	invalid []string
}

func parseOptions(args []string) options {
	opts := options{filter: simplecms.ListContentRequest{Page: 1, PageSize: 50}}

	for _, arg := range args {
		if arg == "--json" {
			opts.json = true
			continue
		}

		key, value := parseFlag(arg)
		switch key {
		case "":
			opts.args = append(opts.args, arg)
		case "status":
			status := simplecms.ContentStatus(value)
			opts.filter.Status = &status
		case "type":
			contentType := simplecms.ContentType(value)
			opts.filter.ContentType = &contentType
		case "language":
			opts.filter.Language = value
		case "author-id":
			if id, err := uuid.Parse(value); err == nil {
				opts.filter.AuthorID = &id
			} else {
				opts.invalid = append(opts.invalid, arg)
			}
		case "tag":
			opts.filter.Tags = append(opts.filter.Tags, value)
		case "search":
			opts.filter.Search = value
		case "page":
			if n, err := strconv.Atoi(value); err == nil {
				opts.filter.Page = n
			} else {
				opts.invalid = append(opts.invalid, arg)
			}
		case "page-size":
			if n, err := strconv.Atoi(value); err == nil {
				opts.filter.PageSize = n
			} else {
				opts.invalid = append(opts.invalid, arg)
			}
		case "as":
			if id, err := uuid.Parse(value); err == nil {
				opts.as = id
			} else {
				opts.invalid = append(opts.invalid, arg)
			}
		default:
			opts.invalid = append(opts.invalid, arg)
		}
	}

	return opts
}

func parseFlag(arg string) (string, string) {
	if !strings.HasPrefix(arg, "--") {
		return "", ""
	}
	arg = strings.TrimPrefix(arg, "--")
	if key, value, ok := strings.Cut(arg, "="); ok {
		return key, value
	}
	return arg, "true"
}

// operator is the principal the CLI acts as
func operator(id uuid.UUID) *auth.Principal {
	return &auth.Principal{
		ID:        id,
		Email:     "admin-cli",
		Roles:     []string{"admin"},
		Active:    true,
		Superuser: true,
	}
}

func execute(ctx context.Context, svc simplecms.Service, command string, args []string, out io.Writer) error {
	opts := parseOptions(args)
	if len(opts.invalid) > 0 {
		return fmt.Errorf("%w: bad option %s", errUsage, strings.Join(opts.invalid, ", "))
	}
	p := operator(opts.as)

	switch command {
	case "list":
		return handleList(ctx, svc, p, opts, out)
	case "stats":
		return handleStats(ctx, svc, p, opts, out)
	case "placeholders":
		return handlePlaceholders(ctx, svc, p, opts, out)
	case "purge":
		return handlePurge(ctx, svc, p, opts, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func contentIDArg(opts options, want int) (uuid.UUID, error) {
	if len(opts.args) != want {
		return uuid.Nil, fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, want, len(opts.args))
	}
	id, err := uuid.Parse(opts.args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: content id must be a UUID", errUsage)
	}
	return id, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func handleList(ctx context.Context, svc simplecms.Service, p *auth.Principal, opts options, out io.Writer) error {
	page, err := svc.ListContent(ctx, p, opts.filter)
	if err != nil {
		return fmt.Errorf("failed to list content: %w", err)
	}

	if opts.json {
		return writeJSON(out, page)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSLUG\tLANG\tSTATUS\tTYPE\tUPDATED\n")
	for _, content := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			content.ID.String(),
			truncate(content.Slug, 30),
			content.Language,
			content.Status,
			truncate(string(content.ContentType), 15),
			content.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d (page %d of %d)\n", page.Total, page.Page, page.Pages)
	return nil
}

// statusCount is one row of the stats output
type statusCount struct {
	Status simplecms.ContentStatus `json:"status"`
	Count  int                     `json:"count"`
}

func handleStats(ctx context.Context, svc simplecms.Service, p *auth.Principal, opts options, out io.Writer) error {
	statuses := []simplecms.ContentStatus{
		simplecms.ContentStatusDraft,
		simplecms.ContentStatusReview,
		simplecms.ContentStatusPublished,
		simplecms.ContentStatusArchived,
	}
	if opts.filter.Status != nil {
		statuses = []simplecms.ContentStatus{*opts.filter.Status}
	}

	counts := make([]statusCount, 0, len(statuses))
	total := 0
	for _, status := range statuses {
		req := opts.filter
		req.Status = &status
		req.Page, req.PageSize = 1, 1
		page, err := svc.ListContent(ctx, p, req)
		if err != nil {
			return fmt.Errorf("failed to count %s content: %w", status, err)
		}
		counts = append(counts, statusCount{Status: status, Count: page.Total})
		total += page.Total
	}

	if opts.json {
		return writeJSON(out, map[string]interface{}{"total": total, "by_status": counts})
	}

	fmt.Fprintln(out, "=== Content Statistics ===")
	fmt.Fprintf(out, "\nTotal Count: %d\n\nBy Status:\n", total)
	for _, c := range counts {
		fmt.Fprintf(out, "  %-15s: %d\n", c.Status, c.Count)
	}
	return nil
}

func handlePlaceholders(ctx context.Context, svc simplecms.Service, p *auth.Principal, opts options, out io.Writer) error {
	id, err := contentIDArg(opts, 2)
	if err != nil {
		return err
	}
	created, err := svc.BulkCreatePlaceholders(ctx, p, id, strings.Split(opts.args[1], ","))
	if err != nil {
		return fmt.Errorf("failed to create placeholders: %w", err)
	}

	if opts.json {
		return writeJSON(out, created)
	}
	for _, t := range created {
		fmt.Fprintf(out, "%s\t%s\t%s\n", t.ID, t.Language, t.TranslatedSlug)
	}
	fmt.Fprintf(out, "Created %d placeholder(s)\n", len(created))
	return nil
}

func handlePurge(ctx context.Context, svc simplecms.Service, p *auth.Principal, opts options, out io.Writer) error {
	id, err := contentIDArg(opts, 1)
	if err != nil {
		return err
	}
	if err := svc.PurgeContent(ctx, p, id); err != nil {
		return fmt.Errorf("failed to purge content: %w", err)
	}
	fmt.Fprintf(out, "Purged %s\n", id)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
