package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taxonfmt/taxon"
)

// optFlags mirrors taxon.Options as CLI-settable booleans, registered on
// both the format and validate subcommands.
type optFlags struct {
	jsonMode    bool
	base64      bool
	bypassLimit bool
}

func (f *optFlags) RegisterFlags(flags *pflag.FlagSet, cfg config) {
	flags.BoolVar(&f.jsonMode, "json", cfg.JSONMode,
		"interpret and emit strict JSON: no annotators, non-finite/binary/time become null")
	flags.BoolVar(&f.base64, "base64", cfg.BinAsBase64,
		"always emit binary payloads as $b: base64 instead of preferring $h: hex for short values")
	flags.BoolVar(&f.bypassLimit, "bypass-nesting-limit", cfg.BypassNestingLimit,
		"disable the default 32-deep nesting limit (trusted input only)")
}

func (f *optFlags) Options() taxon.Options {
	var o taxon.Options
	if f.jsonMode {
		o |= taxon.OptJSONMode
	}
	if f.base64 {
		o |= taxon.OptBinAsBase64
	}
	if f.bypassLimit {
		o |= taxon.OptBypassNestingLimit
	}
	return o
}

func main() {
	log := logrus.StandardLogger()
	taxon.Log = log

	var configPath string
	root := &cobra.Command{
		Use:           "taxon",
		Short:         "parse and format TAXON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"path to a YAML defaults file")

	// The subcommands' flag defaults come from the config file, so --config
	// is read from the command line here, before cobra parses the rest.
	for i, arg := range os.Args[1:] {
		if path, ok := strings.CutPrefix(arg, "--config="); ok {
			configPath = path
		} else if arg == "--config" && i+2 < len(os.Args) {
			configPath = os.Args[i+2]
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.WithError(err).Fatal("taxon: loading config")
	}

	root.AddCommand(formatCmd(cfg), validateCmd(cfg))

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("taxon: command failed")
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/taxon/config.yaml"
	}
	return ""
}

func formatCmd(cfg config) *cobra.Command {
	flags := &optFlags{}
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "parse a document and re-emit it in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags.Options())
		},
	}
	flags.RegisterFlags(cmd.Flags(), cfg)
	return cmd
}

func validateCmd(cfg config) *cobra.Command {
	flags := &optFlags{}
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "parse a document, reporting the first error's kind and offset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, flags.Options())
		},
	}
	flags.RegisterFlags(cmd.Flags(), cfg)
	return cmd
}

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func runFormat(cmd *cobra.Command, args []string, opts taxon.Options) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	return formatStream(in, cmd.OutOrStdout(), opts)
}

// formatStream parses in and re-emits it canonically to out. Split out of
// runFormat so it can be exercised directly in tests without going through
// cobra's stdin wiring.
func formatStream(in io.Reader, out io.Writer, opts taxon.Options) error {
	v, err := taxon.ParseReader(in, opts)
	if err != nil {
		return err
	}
	defer v.Release()

	return taxon.FormatWriter(out, v, opts)
}

func runValidate(cmd *cobra.Command, args []string, opts taxon.Options) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	valid, err := validateStream(in, cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	if !valid {
		os.Exit(1)
	}
	return nil
}

// validateStream parses in, reporting "valid" or the first error's kind and
// offset to out. It returns valid=false (with a nil error) for a malformed
// document, and a non-nil error only for an I/O failure reading in.
func validateStream(in io.Reader, out io.Writer, opts taxon.Options) (valid bool, err error) {
	v, perr := taxon.ParseReader(in, opts)
	if perr != nil {
		if te, ok := perr.(*taxon.Error); ok {
			fmt.Fprintf(out, "invalid: %s at offset %d\n", te.Kind, te.Offset)
			return false, nil
		}
		return false, perr
	}
	v.Release()
	fmt.Fprintln(out, "valid")
	return true, nil
}
