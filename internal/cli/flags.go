package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// DiffFlags holds flags for the diff run itself
type DiffFlags struct {
	Debug          bool
	Output         string
	NoProgress     bool
	Workers        int
	ChunkSize      int
	Exclude        []string
	BandwidthLimit int64
	FailFast       bool
}

var diffFlags DiffFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/diffnorris/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// AddDiffFlags adds comparison flags to the root command
func AddDiffFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&diffFlags.Debug, "debug", false, "print the full result record after the report")
	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().BoolVar(&diffFlags.NoProgress, "no-progress", false, "disable progress bars")
	cmd.Flags().IntVar(&diffFlags.Workers, "workers", 0, "parallel workers for directory entries (0 = from config)")
	cmd.Flags().IntVar(&diffFlags.ChunkSize, "chunk-size", 0, "streaming read size in bytes (0 = from config)")
	cmd.Flags().StringSliceVar(&diffFlags.Exclude, "exclude", []string{}, "glob patterns to exclude from directory comparison")
	cmd.Flags().Int64Var(&diffFlags.BandwidthLimit, "bandwidth-limit", 0, "read bandwidth limit in bytes/s (0 = unlimited)")
	cmd.Flags().BoolVar(&diffFlags.FailFast, "fail-fast", false, "abort the tree walk on the first entry error")
}
