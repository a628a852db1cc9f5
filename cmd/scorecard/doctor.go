package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/complianceops/scorecard/internal/api"
	"github.com/complianceops/scorecard/internal/config"
	"github.com/complianceops/scorecard/internal/logging"
)

// DoctorResult is the structured output of scorecard doctor. It can be
// serialised to JSON via --format=json or rendered as a human-readable
// table (default).
type DoctorResult struct {
	Config struct {
		Path    string `json:"path"`
		Present bool   `json:"present"`
		Valid   bool   `json:"valid"`
		Error   string `json:"error,omitempty"`
	} `json:"config"`

	API struct {
		BaseURL       string `json:"base_url,omitempty"`
		Reachable     bool   `json:"reachable"`
		Authenticated bool   `json:"authenticated"`
		Admin         bool   `json:"admin"`
		Error         string `json:"error,omitempty"`
	} `json:"api"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run connection and configuration diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			result, err := runDoctor(cmd.Context(), opts, cmd.OutOrStdout(), format)
			if err != nil {
				// Rendering failure — let Cobra/main handle it.
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.go's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy; runDoctor itself never returns an error for an
// unhealthy result so that no error text leaks to callers (such as main).
func runDoctor(ctx context.Context, opts *rootOptions, w io.Writer, format string) (DoctorResult, error) {
	loader := &config.DefaultLoader{Path: opts.configPath}
	result := collectDoctorResult(ctx, opts, loader)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a
// DoctorResult. It performs no rendering; callers decide how to present
// the result.
func collectDoctorResult(ctx context.Context, opts *rootOptions, loader config.Loader) DoctorResult {
	var result DoctorResult

	// Config: stat → load → base URL check. A missing file is fine when
	// the environment or flags supply the connection details.
	result.Config.Path = loader.ConfigPath()
	if _, err := os.Stat(result.Config.Path); err == nil {
		result.Config.Present = true
	}

	cfg, err := loader.Load()
	if err != nil {
		result.Config.Error = err.Error()
		return result
	}
	result.Config.Valid = true

	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.token != "" {
		cfg.API.Token = opts.token
	}
	result.API.BaseURL = cfg.API.BaseURL
	if cfg.API.BaseURL == "" {
		result.API.Error = "no API base URL configured"
		return result
	}

	// API: one status round-trip covers reachability, token validity,
	// and the session's admin flag.
	log := logging.New(io.Discard, "error")
	client := api.NewDefaultClient(
		cfg.API.BaseURL,
		api.StaticToken(cfg.API.Token),
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	status, err := client.Status(ctx)
	if err != nil {
		if api.IsAuth(err) {
			result.API.Reachable = true
		}
		result.API.Error = err.Error()
		return result
	}
	result.API.Reachable = true
	result.API.Authenticated = status.IsAuthenticated
	result.API.Admin = status.IsAdmin

	result.OverallHealthy = result.Config.Valid &&
		result.API.Reachable &&
		result.API.Authenticated

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Connection Diagnostics")

	fmt.Fprintln(w, "\nConfig:")
	if !result.Config.Present {
		doctorPrint(w, "File present", "Not found (optional)", result.Config.Path)
	} else {
		doctorPrint(w, "File present", "YES", result.Config.Path)
	}
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", "")
	} else {
		doctorPrint(w, "Config valid", "FAIL", result.Config.Error)
	}

	fmt.Fprintln(w, "\nAPI:")
	if result.API.BaseURL == "" {
		doctorPrint(w, "Base URL", "FAIL", "not configured")
		doctorPrint(w, "Reachable", "FAIL", "skipped")
		doctorPrint(w, "Token", "FAIL", "skipped")
		return
	}
	doctorPrint(w, "Base URL", "OK", result.API.BaseURL)
	if !result.API.Reachable {
		doctorPrint(w, "Reachable", "FAIL", result.API.Error)
		doctorPrint(w, "Token", "FAIL", "skipped")
		return
	}
	doctorPrint(w, "Reachable", "OK", "")
	if result.API.Authenticated {
		doctorPrint(w, "Token", "OK", "")
		doctorPrint(w, "Admin session", fmt.Sprintf("%t", result.API.Admin), "")
	} else {
		doctorPrint(w, "Token", "FAIL", result.API.Error)
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
