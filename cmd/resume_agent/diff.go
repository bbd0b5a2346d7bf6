package main

import (
	"github.com/spf13/cobra"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/compare"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
	"github.com/atul48kumar90/resume-tailor-agent/internal/observability"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		beforeFile       string
		afterFile        string
		requirementsFile string
		output           string
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two resume documents",
		Long: `Compare two resume JSON documents that are not stored as versions and print
the comparison response: the structured diff, side-by-side view and change
statistics. With --requirements both documents are also ATS scored.`,
		Example: `  resume_agent diff --before v1.json --after v2.json
  resume_agent diff --before v1.json --after v2.json --requirements job.json -o text`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			before, err := readDocument(beforeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			after, err := readDocument(afterFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			reqs, err := readRequirements(requirementsFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc := compare.NewService(nil, diff.NewEngine(a.cfg.Diff),
				compare.WithScorer(ats.NewScorer(a.cfg.ATS)),
				compare.WithLogger(a.logger))
			resp, err := svc.CompareDocuments(background(cmd), before, after, reqs)
			if err != nil {
				return err
			}

			if output == outputText {
				p := observability.NewPrinter(cmd.OutOrStdout())
				p.PrintStatistics(resp.Statistics)
				if resp.ATS != nil {
					p.PrintScore(resp.ATS.Before)
					p.PrintScore(resp.ATS.After)
				}
				return nil
			}
			if a.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintStatistics(resp.Statistics)
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&beforeFile, "before", "b", "", "Path to the earlier resume JSON (- for stdin)")
	cmd.Flags().StringVarP(&afterFile, "after", "a", "", "Path to the later resume JSON")
	cmd.Flags().StringVarP(&requirementsFile, "requirements", "r", "", "Path to a job requirements JSON (optional)")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")
	_ = cmd.MarkFlagRequired("before")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}
