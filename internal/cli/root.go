package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gogotex/issuetracker/internal/config"
	"github.com/gogotex/issuetracker/internal/issue"
	"github.com/gogotex/issuetracker/internal/issue/repository"
	"github.com/gogotex/issuetracker/internal/issue/service"
	"github.com/gogotex/issuetracker/internal/storage"
	"github.com/spf13/cobra"
)

// openRepository is replaced in tests.
var openRepository = func(ctx context.Context) (repository.Repository, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg)
}

// NewRootCmd builds the issuectl command tree. The store is chosen by the
// same environment variables as the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "issuectl",
		Short: "Manage project issues directly in the store",
		Long: `issuectl lists, creates, updates and deletes issues in the store
configured by STORE_DRIVER, MONGODB_URI and SQLITE_PATH. It applies the same
validation as the HTTP API.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	root.AddCommand(newListCmd(), newCreateCmd(), newUpdateCmd(), newDeleteCmd())
	return root
}

// withService opens the store for the duration of fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := openRepository(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer repo.Close(context.Background())
	return fn(ctx, service.NewService(repo))
}

func newListCmd() *cobra.Command {
	var (
		filters []string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List a project's issues",
		Example: "  issuectl list apitest --filter open=true --filter created_by=Arman",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("filter %q: expected key=value", f)
				}
				query.Add(k, v)
			}
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				list, err := svc.List(ctx, args[0], query)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}
				printIssues(ui{out: cmd.OutOrStdout()}, list)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Equality filter key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print issues as JSON")
	return cmd
}

func printIssues(u ui, list []*issue.Issue) {
	if len(list) == 0 {
		fmt.Fprintln(u.out, "No issues.")
		return
	}
	table := u.table([]string{"ID", "TITLE", "CREATED BY", "ASSIGNED TO", "STATUS", "STATE", "UPDATED"})
	for _, is := range list {
		_ = table.Append([]string{
			cyan(is.ID.Hex()),
			is.IssueTitle,
			is.CreatedBy,
			is.AssignedTo,
			is.StatusText,
			openColor(is.Open),
			is.UpdatedOn.Format(time.RFC3339),
		})
	}
	_ = table.Render()
}

func newCreateCmd() *cobra.Command {
	var in service.CreateInput
	var open bool
	cmd := &cobra.Command{
		Use:   "create <project>",
		Short: "Create an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("open") {
				in.Open = &open
			}
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				is, err := svc.Create(ctx, args[0], in)
				if err != nil {
					return err
				}
				ui{out: cmd.OutOrStdout()}.success("created issue %s in %s", is.ID.Hex(), args[0])
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.IssueTitle, "title", "", "Issue title (required)")
	f.StringVar(&in.IssueText, "text", "", "Issue text (required)")
	f.StringVar(&in.CreatedBy, "by", "", "Author (required)")
	f.StringVar(&in.AssignedTo, "assigned-to", "", "Assignee")
	f.StringVar(&in.StatusText, "status", "", "Status text")
	f.BoolVar(&open, "open", true, "Whether the issue starts open")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var title, text, by, assignee, status string
	var open bool
	cmd := &cobra.Command{
		Use:   "update <project> <id>",
		Short: "Update fields of an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.UpdateInput{ID: args[1]}
			for flag, dst := range map[string]**string{
				"title":       &in.IssueTitle,
				"text":        &in.IssueText,
				"by":          &in.CreatedBy,
				"assigned-to": &in.AssignedTo,
				"status":      &in.StatusText,
			} {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					*dst = &v
				}
			}
			if cmd.Flags().Changed("open") {
				in.Open = &open
			}
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Update(ctx, args[0], in); err != nil {
					return err
				}
				ui{out: cmd.OutOrStdout()}.success("successfully updated %s", in.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "New title")
	f.StringVar(&text, "text", "", "New text")
	f.StringVar(&by, "by", "", "New author")
	f.StringVar(&assignee, "assigned-to", "", "New assignee")
	f.StringVar(&status, "status", "", "New status text")
	f.BoolVar(&open, "open", true, "Set open (--open=false closes the issue)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an issue",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				ui{out: cmd.OutOrStdout()}.success("successfully deleted %s", args[1])
				return nil
			})
		},
	}
}
