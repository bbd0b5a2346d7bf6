package main

import (
	"github.com/spf13/cobra"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/observability"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		resumeFile       string
		requirementsFile string
		output           string
		attribute        bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a resume against job requirements",
		Long: `Score a resume JSON document against a requirement set the way an ATS keyword
filter would. Requirements may be an object with required_skills,
optional_skills and tool_keywords, or a bare list of required skills.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			resume, err := readDocument(resumeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			reqs, err := readRequirements(requirementsFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			result := ats.NewScorer(a.cfg.ATS).Score(resume, reqs)

			if output == outputText {
				observability.NewPrinter(cmd.OutOrStdout()).PrintScore(result)
				return nil
			}
			if a.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintScore(result)
			}
			if attribute {
				return writeJSON(cmd.OutOrStdout(), struct {
					*ats.Result
					Bullets []ats.BulletAttribution `json:"bullets"`
				}{result, ats.AttributeBullets(resume, reqs)})
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "i", "", "Path to the resume JSON (- for stdin)")
	cmd.Flags().StringVarP(&requirementsFile, "requirements", "r", "", "Path to the job requirements JSON")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")
	cmd.Flags().BoolVar(&attribute, "attribute", false, "Include which experience bullets carry each keyword")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("requirements")
	return cmd
}
