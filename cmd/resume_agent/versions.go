package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/compare"
	"github.com/atul48kumar90/resume-tailor-agent/internal/config"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
	"github.com/atul48kumar90/resume-tailor-agent/internal/observability"
	"github.com/atul48kumar90/resume-tailor-agent/internal/rendering"
	"github.com/atul48kumar90/resume-tailor-agent/internal/server"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

var errNoPersistentStore = errors.New("versions needs a persistent store: pass --db or set DATABASE_URL")

// versionsCmd holds the store shared by the versions subcommands.
type versionsCmd struct {
	*app
	dbPath string
}

// withStore opens the configured store, runs fn and closes the store.
func (v *versionsCmd) withStore(cmd *cobra.Command, fn func(versions.Store) error) error {
	cfg := *v.cfg
	if v.dbPath != "" {
		cfg.Store = config.StoreSQLite
		cfg.SQLitePath = v.dbPath
	}
	if cfg.StoreKind() == config.StoreMemory {
		return errNoPersistentStore
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := server.OpenStore(background(cmd), &cfg, v.logger)
	if err != nil {
		return fmt.Errorf("failed to open version store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newVersionsCmd(a *app) *cobra.Command {
	v := &versionsCmd{app: a}

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage a resume's version history",
		Long: `Append snapshots to a resume's history, move its current pointer and compare
or export any version. History is kept in a SQLite file (--db) or in
Postgres when DATABASE_URL is set.`,
	}
	cmd.PersistentFlags().StringVar(&v.dbPath, "db", "", "Path to a SQLite history file")

	cmd.AddCommand(
		v.appendCmd(),
		v.listCmd(),
		v.showCmd(),
		v.currentCmd(),
		v.stepCmd("undo", "Make the previous version current", versions.Undo),
		v.stepCmd("redo", "Make the next version current", versions.Redo),
		v.compareCmd(),
		v.exportCmd(),
	)
	return cmd
}

func (v *versionsCmd) appendCmd() *cobra.Command {
	var snapshotFile, parent, summary string

	cmd := &cobra.Command{
		Use:   "append <resume_id>",
		Short: "Append a snapshot as the new current version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.AppendVersionRequest{ParentVersionID: parent, ChangeSummary: summary}
			doc, err := readDocument(snapshotFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			req.Snapshot = doc
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid append request: %w", err)
			}

			return v.withStore(cmd, func(store versions.Store) error {
				created, err := store.Append(background(cmd), args[0], req.Snapshot, req.ParentVersionID, req.ChangeSummary)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), created.Meta())
			})
		},
	}
	cmd.Flags().StringVarP(&snapshotFile, "snapshot", "s", "", "Path to the resume JSON (- for stdin)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent version id (default: current)")
	cmd.Flags().StringVarP(&summary, "message", "m", "", "Change summary")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func (v *versionsCmd) listCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list <resume_id>",
		Short: "List a resume's versions, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return v.withStore(cmd, func(store versions.Store) error {
				metas, err := store.List(background(cmd), args[0])
				if err != nil {
					return err
				}
				if output == outputText {
					observability.NewPrinter(cmd.OutOrStdout()).PrintVersions(args[0], metas)
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), metas)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")
	return cmd
}

func (v *versionsCmd) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <resume_id> [version_id]",
		Short: "Print one version, the current one by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.withStore(cmd, func(store versions.Store) error {
				got, err := versions.Resolve(background(cmd), store, args[0], versionArg(args))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), got)
			})
		},
	}
}

func (v *versionsCmd) currentCmd() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "current <resume_id>",
		Short: "Show or move the current pointer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.withStore(cmd, func(store versions.Store) error {
				ctx := background(cmd)
				if set != "" {
					if err := store.SetCurrent(ctx, args[0], set); err != nil {
						return err
					}
				}
				cur, err := store.GetCurrent(ctx, args[0])
				if err != nil {
					return err
				}
				meta := cur.Meta()
				meta.IsCurrent = true
				return writeJSON(cmd.OutOrStdout(), meta)
			})
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "Make this version id current")
	return cmd
}

type stepFunc func(context.Context, versions.Store, string) (*types.ResumeVersion, error)

func (v *versionsCmd) stepCmd(use, short string, move stepFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <resume_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.withStore(cmd, func(store versions.Store) error {
				moved, err := move(background(cmd), store, args[0])
				if err != nil {
					return err
				}
				meta := moved.Meta()
				meta.IsCurrent = true
				return writeJSON(cmd.OutOrStdout(), meta)
			})
		},
	}
}

func (v *versionsCmd) compareCmd() *cobra.Command {
	var with, requirementsFile, output string

	cmd := &cobra.Command{
		Use:   "compare <resume_id> <version_id>",
		Short: "Compare a version with another one, the current one by default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			reqs, err := readRequirements(requirementsFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return v.withStore(cmd, func(store versions.Store) error {
				svc := compare.NewService(store, diff.NewEngine(v.cfg.Diff),
					compare.WithScorer(ats.NewScorer(v.cfg.ATS)),
					compare.WithLogger(v.logger))
				resp, err := svc.CompareVersions(background(cmd), args[0], args[1], with, reqs)
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
				if v.verbose {
					observability.NewPrinter(cmd.ErrOrStderr()).PrintStatistics(resp.Statistics)
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().StringVarP(&with, "with", "w", "", "Version id to compare against (default: current)")
	cmd.Flags().StringVarP(&requirementsFile, "requirements", "r", "", "Path to a job requirements JSON for before/after ATS scores")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")
	return cmd
}

func (v *versionsCmd) exportCmd() *cobra.Command {
	var format, templatePath, outFile string

	cmd := &cobra.Command{
		Use:   "export <resume_id> [version_id]",
		Short: "Render a version as plain text or LaTeX",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if templatePath == "" {
				templatePath = v.cfg.Template
			}
			return v.withStore(cmd, func(store versions.Store) error {
				got, err := versions.Resolve(background(cmd), store, args[0], versionArg(args))
				if err != nil {
					return err
				}
				out, err := rendering.Export(&got.Snapshot, format, templatePath)
				if err != nil {
					return err
				}

				if outFile == "" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), out)
					return err
				}
				if err := os.WriteFile(outFile, []byte(out), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", outFile, err)
				}
				v.logger.Info("exported resume version",
					zap.String("resume_id", got.ResumeID),
					zap.Int("version_number", got.VersionNumber),
					zap.String("format", format),
					zap.String("path", outFile))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", rendering.FormatText, "Export format: text or latex")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "LaTeX template path (default: built-in)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

// versionArg returns the optional second argument, defaulting to current.
func versionArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return types.CurrentVersionID
}
