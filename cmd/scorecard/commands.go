package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/complianceops/scorecard/internal/api"
	"github.com/complianceops/scorecard/internal/config"
	"github.com/complianceops/scorecard/internal/engine"
	"github.com/complianceops/scorecard/internal/filter"
	"github.com/complianceops/scorecard/internal/logging"
	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/output"
	"github.com/complianceops/scorecard/internal/version"
	"github.com/complianceops/scorecard/internal/view"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	apiURL     string
	token      string
	logLevel   string

	jsonOut bool
	colored bool

	fieldFilters []string
	search       string
	payers       []string
	accounts     []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "scorecard",
		Short: "Compliance scorecard — account scores, findings, and exclusion workflows",
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file path (default: ~/.config/scorecard/config.yaml)")
	pf.StringVar(&opts.apiURL, "api-url", "", "Scorecard API base URL (overrides config and SCORECARD_API_URL)")
	pf.StringVar(&opts.token, "token", "", "Bearer token (overrides config and SCORECARD_TOKEN)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&opts.jsonOut, "json", false, "Emit JSON instead of a table")
	pf.BoolVar(&opts.colored, "color", false, "Colour severity and score-trend cells")
	pf.StringArrayVar(&opts.fieldFilters, "filter", nil, "Column filter as key=value; repeatable, all must match")
	pf.StringVar(&opts.search, "search", "", "Case-sensitive substring match across every column")
	pf.StringSliceVar(&opts.payers, "payer", nil, "Restrict to the member accounts of these payer account names")
	pf.StringSliceVar(&opts.accounts, "account", nil, "Restrict to these account IDs")

	root.AddCommand(newAccountsCmd(opts))
	root.AddCommand(newMatrixCmd(opts))
	root.AddCommand(newNCRCmd(opts))
	root.AddCommand(newExclusionsCmd(opts))
	root.AddCommand(newScansCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newExclusionCmd(opts))
	root.AddCommand(newRemediateCmd(opts))
	root.AddCommand(newTagsCmd(opts))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newDoctorCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	loader := &config.DefaultLoader{Path: opts.configPath}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.token != "" {
		cfg.API.Token = opts.token
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("no API base URL: set api.base_url in the config file, SCORECARD_API_URL, or --api-url")
	}
	return cfg, nil
}

// newEngine wires config, logging, the API client, and the orchestration
// engine for one command invocation.
func newEngine(opts *rootOptions) (engine.Engine, zerolog.Logger, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logging.New(os.Stderr, cfg.Log.Level)
	client := api.NewDefaultClient(
		cfg.API.BaseURL,
		api.StaticToken(cfg.API.Token),
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	return engine.NewDefaultEngine(client, log), log, nil
}

// parseFieldFilters turns repeated key=value flags into a filter map.
func parseFieldFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q: expected key=value", pair)
		}
		fields[key] = value
	}
	return fields, nil
}

// buildFilter assembles the row filter from the persistent flags. Payer
// names expand to their member account lists; explicit account IDs are
// added alongside.
func buildFilter(opts *rootOptions, status *models.StatusData) (filter.Filter, error) {
	fields, err := parseFieldFilters(opts.fieldFilters)
	if err != nil {
		return filter.Filter{}, err
	}

	scope := filter.ResolveScope(status.PayerAccounts, opts.payers)
	for _, id := range opts.accounts {
		scope = append(scope, models.AccountRef{AccountID: id})
	}

	return filter.Filter{
		Scope:  scope,
		Fields: fields,
		Search: opts.search,
	}, nil
}

// renderTable writes a projection to stdout as JSON or a formatted table,
// depending on the --json flag.
func renderTable(cmd *cobra.Command, opts *rootOptions, table view.Table) error {
	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	output.RenderTable(cmd.OutOrStdout(), table, output.TableOptions{Colored: opts.colored})
	return nil
}

// viewFunc builds one projection once the session status is refreshed.
type viewFunc func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error)

// runView is the shared body of every read-only table command: wire the
// engine, refresh the reference data, build the filter, project, render.
func runView(cmd *cobra.Command, opts *rootOptions, fn viewFunc) error {
	eng, _, err := newEngine(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	status, err := eng.RefreshStatus(ctx)
	if err != nil {
		return describeError(err)
	}
	f, err := buildFilter(opts, status)
	if err != nil {
		return err
	}
	table, err := fn(ctx, eng, f)
	if err != nil {
		return describeError(err)
	}
	return renderTable(cmd, opts, table)
}

// describeError maps API error classes to operator-friendly messages.
func describeError(err error) error {
	if api.IsAuth(err) {
		return fmt.Errorf("not authenticated: %w (refresh the token in your config)", err)
	}
	return err
}

func newAccountsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Show per-account compliance scores with history and trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error) {
				return eng.AccountsView(ctx, f)
			})
		},
	}
}

func newMatrixCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Show the requirement-by-account score matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error) {
				return eng.MatrixView(ctx, f)
			})
		},
	}
}

func newNCRCmd(opts *rootOptions) *cobra.Command {
	var requirementID string

	cmd := &cobra.Command{
		Use:   "ncr",
		Short: "Show non-compliant resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error) {
				fetch := engine.NCROptions{
					AccountIDs:    opts.accounts,
					RequirementID: requirementID,
				}
				return eng.NCRView(ctx, fetch, f)
			})
		},
	}
	cmd.Flags().StringVar(&requirementID, "requirement", "", "Restrict the fetch to one requirement ID")
	return cmd
}

func newExclusionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exclusions",
		Short: "Show the admin exclusions worklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error) {
				return eng.ExclusionsView(ctx, f)
			})
		},
	}
}

func newScansCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scans",
		Short: "Show scan history with errors and expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, func(ctx context.Context, eng engine.Engine, f filter.Filter) (view.Table, error) {
				return eng.ScansView(ctx, f)
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, scan, and reference-data status",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := newEngine(opts)
			if err != nil {
				return err
			}
			status, err := eng.RefreshStatus(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			if opts.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

// printStatus renders the human-readable status summary.
func printStatus(cmd *cobra.Command, status *models.StatusData) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "User:          %s %s <%s>\n", status.FirstName, status.LastName, status.Email)
	fmt.Fprintf(w, "Admin:         %t\n", status.IsAdmin)
	if status.Scan != nil {
		fmt.Fprintf(w, "Last scan:     %s\n", status.Scan.LastScanDate)
	}
	fmt.Fprintf(w, "Accounts:      %d\n", len(status.AccountList))
	if status.IsAdmin && len(status.UsersList) > 0 {
		fmt.Fprintf(w, "Users:         %d\n", len(status.UsersList))
	}
	fmt.Fprintf(w, "Requirements:  %d\n", len(status.Requirements))
	if status.SpreadsheetURL != "" {
		fmt.Fprintf(w, "Spreadsheet:   %s\n", status.SpreadsheetURL)
	}
}
