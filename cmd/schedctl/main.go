// Command schedctl converts schedule workbooks offline and maintains the
// session store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedctl",
		Short: "Extract and export instructor schedule workbooks",
		Long: `schedctl reads instructor schedule workbooks (.xlsx), extracts one record
per class and writes them as a clean workbook or as tab-separated text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd(), newSweepCmd())
	return root
}
