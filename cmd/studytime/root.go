package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jamesainslie/studytime/pkg/studytime/config"
	"github.com/jamesainslie/studytime/pkg/studytime/logging"
)

// annotationLenientConfig marks commands that still run when the config
// file fails to decode, so a broken file can be located and fixed.
const annotationLenientConfig = "lenient-config"

var (
	cfgFile string

	// v and cfg are set by initialize before any command runs.
	v   *viper.Viper
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "studytime [paths...]",
		Short: "Estimate how long it takes to study a set of documents and videos",
		Long: `Studytime counts the pages of the PDF documents and the running time of the
videos under the given paths and estimates how long studying them will take.

A single directory argument is split into its immediate children, which are
scanned concurrently. Without arguments the last scanned directory is used,
or your home directory on first run.

Examples:
  studytime ~/courses/algebra          # Estimate a course directory
  studytime notes.pdf lecture.mp4      # Estimate individual files
  studytime -o json ~/courses          # JSON output
  studytime --seconds-per-page 90 .    # Faster reading pace
  studytime watch ~/courses/algebra    # Re-estimate whenever files change
  studytime history                    # Past estimations`,
		Args:               cobra.ArbitraryArgs,
		PersistentPreRunE:  initialize,
		PersistentPostRunE: finalize,
		RunE:               runScan,
	}
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"workers":          "workers",
	"exclude":          "exclude",
	"follow-symlinks":  "follow_symlinks",
	"output":           "output",
	"template":         "template",
	"seconds-per-page": "pacing.seconds_per_page",
	"video-speed":      "pacing.video_speed",
	"hours-per-day":    "pacing.hours_per_day",
	"no-cache":         "no_cache",
	"no-history":       "no_history",
	"verbose":          "verbose",
	"quiet":            "quiet",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/studytime/config.yaml)")
	flags.IntP("workers", "w", 0, "concurrent tasks per metric (0=auto)")
	flags.StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	flags.Bool("follow-symlinks", false, "descend into symlinked directories")
	flags.StringP("output", "o", config.DefaultOutput, "output format (pretty, plain, json, yaml, markdown, template)")
	flags.String("template", "", "text/template used by the template output format")
	flags.Float64("seconds-per-page", config.DefaultSecondsPerPage, "reading time per document page in seconds")
	flags.Float64("video-speed", config.DefaultVideoSpeed, "video playback speed")
	flags.Float64("hours-per-day", config.DefaultHoursPerDay, "study hours per day")
	flags.Bool("no-cache", false, "bypass the extraction cache")
	flags.Bool("no-history", false, "do not record this estimation in the history")
	flags.BoolP("verbose", "v", false, "debug output")
	flags.BoolP("quiet", "q", false, "minimal output")
}

// bindFlags binds every flag in flagKeys to its config key on vp.
func bindFlags(vp *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := vp.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// initialize loads the configuration and starts logging. It runs as the
// PersistentPreRunE hook of every command.
func initialize(cmd *cobra.Command, _ []string) error {
	vp, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(vp, cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	v = vp

	c, err := config.Decode(vp)
	if err != nil {
		if cmd.Annotations[annotationLenientConfig] == "" {
			return err
		}
		printError("%v", err)
		return logging.Init(logging.DefaultConfig())
	}
	if vp.GetBool("no_cache") {
		c.Cache.Enabled = false
	}
	if vp.GetBool("no_history") {
		c.History.Enabled = false
	}
	cfg = c

	return logging.Init(c.Logging.Logging(consoleLevel(getVerbose(), getQuiet())))
}

// finalize flushes the log file.
func finalize(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// consoleLevel picks the stderr log level. Logs stay in the file unless
// verbose output was requested.
func consoleLevel(verbose, quiet bool) string {
	if verbose && !quiet {
		return "debug"
	}
	return ""
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return v != nil && v.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return v != nil && v.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
// Stdout carries only the formatted report.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
