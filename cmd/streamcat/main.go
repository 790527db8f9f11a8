// streamcat copies a file, stdin or a TCP endpoint to stdout through a
// buffered stream.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "streamcat [FILE | - | tcp://HOST:PORT]",
	Short: "copy a source to stdout through a buffered stream",
	Long: `Copy a source to stdout through a buffered stream.

The source is a file path, "-" for stdin (the default) or tcp://HOST:PORT.
Data is copied line by line, in fixed size blocks or in one slurp.

Stream and pool defaults come from the STREAM_* environment variables.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCat,
}

var catArgs struct {
	mode      string
	blockSize int
	chunkSize int
	exact     bool
	timeout   time.Duration
	metrics   bool
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&catArgs.mode, "mode", "m", modeLine, "copy mode: line, block or slurp")
	flags.IntVarP(&catArgs.blockSize, "block-size", "b", 0, "block size for block mode (default 8192)")
	flags.IntVar(&catArgs.chunkSize, "chunk-size", 0, "stream chunk size, overrides STREAM_CHUNK_SIZE")
	flags.BoolVar(&catArgs.exact, "exact", false, "read full blocks in block mode")
	flags.DurationVar(&catArgs.timeout, "timeout", 0, "per-operation timeout for tcp sources")
	flags.BoolVar(&catArgs.metrics, "metrics", false, "dump pool and stream metrics to stderr when done")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
