package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and load reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// the schema is applied when the store is opened
			res := a.svc.Stats(cmd.Context())
			if !res.Success {
				return errors.New(res.Error)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newInsertCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "insert [payload|-]",
		Short: "Insert one invoice from JSON, XML or free text",
		Long: "Insert one invoice. The payload is read from the argument, from stdin\n" +
			"when the argument is \"-\" or missing, or from --file via text extraction.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload string
			switch {
			case file != "":
				res, err := a.extractor.Extract(cmd.Context(), file)
				if err != nil {
					return err
				}
				payload = res.Text
			case len(args) == 1 && args[0] != "-":
				payload = args[0]
			default:
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				payload = string(raw)
			}
			if strings.TrimSpace(payload) == "" {
				return errors.New("empty payload")
			}

			res := a.svc.Insert(cmd.Context(), payload)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("%s: %s", res.Reason, res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the invoice from a .txt, .json, .xml, .xlsx or .pdf file")
	return cmd
}

func newIngestCmd(a *app) *cobra.Command {
	var (
		exts       []string
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Insert every supported invoice file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, stats, err := a.ingestor.IngestDirectory(cmd.Context(), args[0], exts, skipHidden)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), map[string]any{"results": results, "stats": stats}); err != nil {
				return err
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Matched)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "only ingest these extensions (e.g. --ext xml,json)")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dotfiles and dot-directories")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a read query against the invoice tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.svc.Query(cmd.Context(), args[0])
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Error != "" {
				return errors.New(res.Error)
			}
			return nil
		},
	}
}

func newDictionaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dictionary",
		Short: "Print the field dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.svc.Dictionary(cmd.Context()))
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print row counts per table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.svc.Stats(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored invoices to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			xlsx, err := a.exporter.ExportInvoicesXLSX(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, xlsx, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(xlsx))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "notas.xlsx", "output file")
	return cmd
}
