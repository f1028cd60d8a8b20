// Command bibstrip removes unwanted fields from BibTeX files and sorts the
// entries by citation key.
//
//	bibstrip [-i input.bib] [-o output.bib] [-f abstract,file,note] [-n]
//
// Input defaults to standard input and output to standard output. A summary
// line is written to standard error when done.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drgo/bibstrip"
)

var version = "devel"

type options struct {
	cfgFile string
	infile  string
	outfile string
	verbose bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bibstrip: ")
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "bibstrip",
		Short: "Strip unnecessary stuff from BibTeX files",
		Long: `bibstrip reads BibTeX entries, removes the listed fields from each entry
and writes the entries back, sorted by citation key unless --no-sort is given.

Examples:
  bibstrip -i refs.bib -o clean.bib
  bibstrip -f abstract,keywords --no-sort < refs.bib > clean.bib`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, opts.cfgFile)
			if err != nil {
				return err
			}
			return process(cmd.Context(), cfg, opts, cmd.ErrOrStderr())
		},
	}
	addFlags(cmd.PersistentFlags(), cmd.Flags(), &opts)
	bindConfig(v, cmd.PersistentFlags())
	cmd.AddCommand(newConfigCmd(v, &opts), newVersionCmd())
	return cmd
}

func addFlags(persistent, local *pflag.FlagSet, opts *options) {
	persistent.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default: ./.bibstrip.yaml or $HOME/.bibstrip.yaml)")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-entry details to standard error")
	persistent.StringP("remove-fields", "f", bibstrip.DefaultRemoveFields, "comma-separated list of fields to remove")
	persistent.BoolP("no-sort", "n", false, "keep input order instead of sorting by citation key")
	persistent.String("indent", bibstrip.DefaultIndent, "indent written before each field")

	local.StringVarP(&opts.infile, "infile", "i", "", "input BibTeX file (default: standard input)")
	local.StringVarP(&opts.outfile, "outfile", "o", "", "output file (default: standard output)")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func process(ctx context.Context, cfg bibstrip.Config, opts options, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose)
	in, err := bibstrip.OpenInput(opts.infile)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := bibstrip.CreateOutput(opts.outfile)
	if err != nil {
		return err
	}
	defer out.Close()

	logger.Debug("starting", "input", in.Name(), "output", out.Name(),
		"remove", cfg.RemoveFields, "sort", !cfg.NoSort)
	count, err := bibstrip.New(cfg, bibstrip.WithLogger(logger)).Run(ctx, in, out)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	fmt.Fprintln(stderr, bibstrip.Summary(count, in, out))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bibstrip %s\n", version)
		},
	}
}
