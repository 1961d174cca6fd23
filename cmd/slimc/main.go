package main

import (
	"errors"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/raymyers/slimexpr/pkg/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// ErrFreeVariables is returned in strict mode for trees with parameters
// that no lambda, block or catch handler declares.
var ErrFreeVariables = errors.New("tree has free parameters")

// ErrUnstable is returned by roundtrip when narrowing the widened tree does
// not reproduce the first narrowing.
var ErrUnstable = errors.New("round trip is not stable")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// options holds the persistent flags. Flags that were set override the
// configuration file.
type options struct {
	configPath string
	format     string
	indent     int
	strict     bool
	noColor    bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "slimc",
		Short: "slimc converts expression tree documents to slim trees and back",
		Long: `slimc reads YAML tree documents, builds native expression trees from
them and narrows those to portable slim trees. It can print the slim
tree, check that widening and narrowing again is stable, and evaluate
lambdas after a round trip.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				pterm.DisableColor()
			}
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default: "+config.FileName+" in the working directory or a parent)")
	pf.StringVar(&opts.format, "format", config.FormatFlat, "Slim tree output format: flat or tree")
	pf.IntVar(&opts.indent, "indent", 2, "Indent width of the tree format")
	pf.BoolVar(&opts.strict, "strict", false, "Reject trees with free parameters")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable coloured diagnostics")

	rootCmd.AddCommand(
		newNarrowCmd(opts, out, errOut),
		newRoundtripCmd(opts, out, errOut),
		newEvalCmd(opts, out, errOut),
	)
	return rootCmd
}

// loadConfig reads the configuration and applies the flags set on cmd
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	path := opts.configPath
	if path == "" {
		path, _ = config.Find(".")
	}
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("indent") {
		cfg.Indent = opts.indent
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if cfg.Format != config.FormatFlat && cfg.Format != config.FormatTree {
		return nil, errors.New("--format must be flat or tree")
	}
	return cfg, nil
}
