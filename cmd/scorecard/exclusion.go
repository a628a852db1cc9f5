package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complianceops/scorecard/internal/api"
	"github.com/complianceops/scorecard/internal/engine"
	"github.com/complianceops/scorecard/internal/exclusion"
	"github.com/complianceops/scorecard/internal/filter"
	"github.com/complianceops/scorecard/internal/models"
	"github.com/complianceops/scorecard/internal/tags"
)

// prepare wires the engine, refreshes the reference data, and pre-fetches
// the findings collection so by-id lookups can resolve.
func prepare(cmd *cobra.Command, opts *rootOptions) (engine.Engine, context.Context, error) {
	eng, _, err := newEngine(opts)
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if _, err := eng.RefreshStatus(ctx); err != nil {
		return nil, nil, describeError(err)
	}
	return eng, ctx, nil
}

func newExclusionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclusion",
		Short: "Inspect and submit exclusion lifecycle transitions",
	}
	cmd.AddCommand(newExclusionShowCmd(opts))
	cmd.AddCommand(newExclusionSubmitCmd(opts))
	cmd.AddCommand(newExclusionEditCmd(opts))
	return cmd
}

func newExclusionShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ncr-id>",
		Short: "Show the available lifecycle transition and its form for one finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, ctx, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := eng.NCRView(ctx, engine.NCROptions{}, emptyFilter()); err != nil {
				return describeError(err)
			}

			action, err := eng.ExclusionAction(args[0])
			if err != nil {
				return describeError(err)
			}
			printAction(cmd, action)
			return nil
		},
	}
}

// printAction renders a lifecycle action and its form fields.
func printAction(cmd *cobra.Command, action exclusion.Action) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Finding:  %s\n", action.NCRID)
	fmt.Fprintf(w, "Action:   %s\n", action.Label)
	if action.Display != "" {
		fmt.Fprintf(w, "Current:  %s\n", action.Display)
	}
	if len(action.Options) > 0 {
		fmt.Fprintln(w, "\nTarget states:")
		for _, opt := range action.Options {
			fmt.Fprintf(w, "  %-10s  %s\n", opt.Status, opt.Title)
		}
	}
	if len(action.Fields) > 0 {
		fmt.Fprintln(w, "\nForm:")
		for _, field := range action.Fields {
			switch field.Kind {
			case exclusion.KindLabel:
				fmt.Fprintf(w, "  %s: %s\n", field.Label, field.Default)
			default:
				line := fmt.Sprintf("  %s (--field %s=...)", field.Label, field.ID)
				if field.Placeholder != "" {
					line += fmt.Sprintf("  [%s]", field.Placeholder)
				}
				if field.Default != "" {
					line += fmt.Sprintf("  default: %s", field.Default)
				}
				fmt.Fprintln(w, line)
			}
		}
	}
}

func newExclusionSubmitCmd(opts *rootOptions) *cobra.Command {
	var (
		target string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "submit <ncr-id>",
		Short: "Submit an exclusion transition for one finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.ExclusionStatus(target)
			if !status.Valid() || status == models.StatusNone {
				return fmt.Errorf("invalid --status %q", target)
			}
			entered, err := parseFieldFilters(fields)
			if err != nil {
				return err
			}

			eng, ctx, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := eng.NCRView(ctx, engine.NCROptions{}, emptyFilter()); err != nil {
				return describeError(err)
			}

			if err := eng.SubmitUserExclusion(ctx, args[0], status, entered); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exclusion for %s submitted as %s.\n", args[0], status)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "status", string(models.StatusInitial), "Target lifecycle state")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Form field as key=value; repeatable")
	return cmd
}

func newExclusionEditCmd(opts *rootOptions) *cobra.Command {
	var (
		target string
		hides  bool
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "edit <exclusion-id>",
		Short: "Edit an exclusion record through the admin endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entered, err := parseFieldFilters(fields)
			if err != nil {
				return err
			}
			edit := exclusion.AdminEdit{
				NewStatus:      models.ExclusionStatus(target),
				HidesResources: hides,
				Entered:        entered,
			}
			if edit.NewStatus != models.StatusNone && !edit.NewStatus.Valid() {
				return fmt.Errorf("invalid --status %q", target)
			}

			eng, ctx, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := eng.ExclusionsView(ctx, emptyFilter()); err != nil {
				return describeError(err)
			}

			if err := eng.SubmitAdminExclusion(ctx, args[0], edit); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exclusion %s updated.\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "status", "", "New lifecycle state (empty keeps the current one)")
	cmd.Flags().BoolVar(&hides, "hide-resources", false, "Hide the excluded resources from every projection")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Form field as key=value; repeatable")
	return cmd
}

func newRemediateCmd(opts *rootOptions) *cobra.Command {
	var (
		params   []string
		override bool
	)

	cmd := &cobra.Command{
		Use:   "remediate <ncr-id>",
		Short: "Trigger automated remediation for one finding",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one finding id")
			}
			parameters, err := parseFieldFilters(params)
			if err != nil {
				return err
			}

			eng, ctx, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			err = eng.Remediate(ctx, args[0], parameters, override)
			if errors.Is(err, api.ErrOverrideRequired) {
				return fmt.Errorf("the resource is managed by infrastructure-as-code; rerun with --override to remediate anyway")
			}
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Remediation for %s started.\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Remediation parameter as key=value; repeatable")
	cmd.Flags().BoolVar(&override, "override", false, "Proceed even when the resource is infrastructure-as-code managed")
	return cmd
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <ncr-id>",
		Short: "Fetch and print the resource tags of one finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, ctx, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			if err := eng.FetchTags(ctx, args[0]); err != nil {
				return describeError(err)
			}
			set, ok := eng.Tags(args[0])
			if !ok || len(set.Tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tags.NoTags)
				return nil
			}
			for _, tag := range set.Tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tag.Name, tag.Value)
			}
			return nil
		},
	}
}

// emptyFilter is the no-op row filter used when a command only needs the
// fetch side effect of a view.
func emptyFilter() filter.Filter { return filter.Filter{} }
