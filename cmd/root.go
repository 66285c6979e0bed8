// =============================================================================
// XML to JSON Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command does
// the conversion itself; 'version' is its only subcommand.
//
// COBRA CLI STRUCTURE:
//   rootCmd (xml2json PATH)
//   └── versionCmd (xml2json version)
//
// CONFIGURATION:
//   Settings are resolved in three layers, later layers winning:
//   1. Built-in defaults
//   2. The optional --config YAML file
//   3. Flags that were explicitly set on the command line
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile is the optional YAML defaults file (--config).
var cfgFile string

var (
	recursionDepth int
	deleteXMLs     bool
	numWorkers     int
	logLevel       string
	noProgress     bool
)

// verbose is shorthand for --log-level debug.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd converts the PATH argument. Output goes to cmd.OutOrStdout and
// cmd.ErrOrStderr so tests can capture it.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "xml2json PATH",

	Short: "XML to JSON Converter - Convert XML files to pretty-printed JSON",

	Long: `XML to JSON Converter converts a single XML file, or every XML file under a
directory tree, into a JSON file written next to it.

The JSON file keeps the directory of the source and takes the part of the file
name before its first dot, so report.v2.xml becomes report.json. Hidden
directories are never searched.

Directories are converted concurrently on a fixed pool of workers. A failing
file never stops the others; every failure is reported at the end and the
command exits non-zero.

Example Usage:
  xml2json ./exports                      # Convert every XML file under ./exports
  xml2json ./exports -r 0 -w 8            # Only ./exports itself, 8 workers
  xml2json ./exports/report.xml -d        # Convert one file, then delete it
  xml2json ./exports --config xml2json.yaml`,

	Args: cobra.ExactArgs(1),

	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Usage is printed for argument and flag errors only. Those fail
		// before RunE; everything from here on is a configuration or
		// conversion error.
		cmd.SilenceUsage = true

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runConvert(args[0], cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("recursion-depth") {
		depth := recursionDepth
		cfg.RecursionDepth = &depth
	}
	if flags.Changed("delete-xmls") {
		cfg.DeleteXMLs = deleteXMLs
	}
	if flags.Changed("num-workers") {
		cfg.NumWorkers = numWorkers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("no-progress") {
		cfg.NoProgress = noProgress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI against os.Args. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --recursion-depth flag: Only applied when set; unlimited otherwise.
	rootCmd.Flags().IntVarP(
		&recursionDepth,
		"recursion-depth",
		"r",
		0,
		"Maximum directory depth to search (0 = only PATH itself; default unlimited)",
	)

	// --delete-xmls flag: Remove each XML file after its JSON file is written.
	rootCmd.Flags().BoolVarP(
		&deleteXMLs,
		"delete-xmls",
		"d",
		false,
		"Delete each XML file after successful conversion",
	)

	// --num-workers flag: Size of the worker pool.
	rootCmd.Flags().IntVarP(
		&numWorkers,
		"num-workers",
		"w",
		config.DefaultWorkers,
		fmt.Sprintf("Number of concurrent workers (%d-%d)", config.MinWorkers, config.MaxWorkers),
	)

	// --config flag: Optional YAML file with default settings.
	rootCmd.Flags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML file with default settings",
	)

	// --log-level flag: Verbosity of the log output on stderr.
	rootCmd.Flags().StringVar(
		&logLevel,
		"log-level",
		"info",
		"Log level (debug, info, warn, error)",
	)

	// --verbose flag: Same as --log-level debug.
	rootCmd.Flags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// --no-progress flag: Hide the progress bar.
	rootCmd.Flags().BoolVar(
		&noProgress,
		"no-progress",
		false,
		"Hide the progress bar",
	)

	rootCmd.AddCommand(versionCmd)
}
