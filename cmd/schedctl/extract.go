package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byhelaman/sched-planner/internal/config"
	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/schema"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

type extractOptions struct {
	output   string
	tsv      bool
	layout   string
	tagMatch string
	workers  int
}

func newExtractCmd() *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract <file.xlsx>...",
		Short: "Extract schedule records from workbooks",
		Long: `Extract parses every sheet of the given workbooks, in order, and writes
the records to --output as a workbook. With --tsv, or when --output ends in
.tsv, records are written as tab-separated text without a header; with no
--output that text goes to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (.xlsx or .tsv); default: TSV on stdout")
	cmd.Flags().BoolVar(&opts.tsv, "tsv", false, "Write tab-separated text instead of a workbook")
	cmd.Flags().StringVar(&opts.layout, "layout", schema.DefaultVersion,
		fmt.Sprintf("Sheet layout version (%s)", strings.Join(schema.Versions(), ", ")))
	cmd.Flags().StringVar(&opts.tagMatch, "tag-match", string(schedule.TagMatchContains), "Block tag matching: contains or exact")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", workbook.DefaultMaxWorkers, "Workbooks parsed in parallel")
	return cmd
}

func runExtract(cmd *cobra.Command, paths []string, opts extractOptions) error {
	parser, err := core.NewParser(config.ParseConfig{
		MaxWorkers:  opts.workers,
		SheetLayout: opts.layout,
		TagMatch:    opts.tagMatch,
	})
	if err != nil {
		return err
	}

	var sources []workbook.Source
	for _, p := range paths {
		if !workbook.Accepts(p) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: not an %s workbook\n", p, workbook.Extension)
			continue
		}
		sources = append(sources, workbook.Source{
			Name: filepath.Base(p),
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}
	if len(sources) == 0 {
		return core.ErrNoWorkbooks
	}

	result, err := parser.ParseAll(cmd.Context(), sources)
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Name, f.Err)
		default:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d records from %d sheets (%d skipped)\n",
				f.Name, f.Count, f.Sheets, len(f.Skipped))
		}
	}
	if len(result.Records) == 0 {
		return core.ErrNoRecords
	}

	asTSV := opts.tsv || opts.output == "" || strings.EqualFold(filepath.Ext(opts.output), ".tsv")
	if opts.output == "" {
		return schedule.WriteTSV(cmd.OutOrStdout(), result.Records)
	}
	return writeOutput(opts.output, result.Records, asTSV)
}

// writeOutput writes through a temp file so a failed export leaves no
// partial file behind.
func writeOutput(path string, records []schedule.Record, asTSV bool) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".schedctl-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if asTSV {
		err = schedule.WriteTSV(tmp, records)
	} else {
		err = workbook.WriteRecords(tmp, records)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrExport, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
