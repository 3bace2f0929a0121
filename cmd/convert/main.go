package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "convert",
		Short:         "Convert files and run the PDF toolkit without the HTTP server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.workDir, "workdir", "w", "", "blob store directory (default: a temporary directory)")
	rootCmd.PersistentFlags().StringVarP(&opts.outDir, "out", "o", ".", "directory for generated files")

	rootCmd.AddCommand(formatsCmd(opts))
	rootCmd.AddCommand(toCmd(opts))
	rootCmd.AddCommand(mergeCmd(opts))
	rootCmd.AddCommand(splitCmd(opts))
	rootCmd.AddCommand(encryptCmd(opts))

	return rootCmd
}
