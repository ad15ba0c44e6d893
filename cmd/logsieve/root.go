package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Geun-Oh/logsieve/internal/config"
	"github.com/Geun-Oh/logsieve/internal/filter"
	"github.com/Geun-Oh/logsieve/internal/logging"
	"github.com/Geun-Oh/logsieve/internal/monitor"
	"github.com/Geun-Oh/logsieve/internal/pipeline"
	"github.com/Geun-Oh/logsieve/internal/sink"
	"github.com/Geun-Oh/logsieve/internal/source"
	"github.com/Geun-Oh/logsieve/internal/tui"
)

// options holds the values of the persistent flags.
type options struct {
	configPath string
	logLevel   string

	level         string
	pattern       string
	exclude       string
	caseSensitive bool
	fixedStrings  bool
	context       int

	tail   int
	since  string
	follow bool

	json      bool
	color     string
	meta      bool
	number    bool
	separator string
	output    string
	stats     bool
	tui       bool
}

// sourceFunc builds the producer once configuration is resolved.
type sourceFunc func(cfg *config.Config) (source.Source, error)

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "logsieve",
		Short: "logsieve filters log output by level and pattern, with context",
		Long: `logsieve reads log lines, infers each line's level, keeps the lines that pass
the level, include and exclude filters, and prints them with surrounding context.
Overlapping or adjacent context windows are merged into one block.

Without a subcommand lines are read from stdin:

  kubectl logs api | logsieve -l error -C 3
  logsieve docker api -e timeout -v healthcheck
  logsieve kube deployment/api --namespace prod -l warn --json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(cfg *config.Config) (source.Source, error) {
				return source.NewStdinSource(cmd.InOrStdin(), o.localTail(cmd)), nil
			})
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "config file (default $LOGSIEVE_CONFIG or <user config dir>/logsieve/config.yaml)")
	f.StringVar(&o.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")

	f.StringVarP(&o.level, "level", "l", "", "minimum level: trace, debug, info, warn, error, fatal")
	f.StringVarP(&o.pattern, "pattern", "e", "", "keep lines matching this pattern")
	f.StringVarP(&o.exclude, "exclude", "v", "", "drop lines matching this pattern")
	f.BoolVar(&o.caseSensitive, "case-sensitive", false, "match patterns case-sensitively")
	f.BoolVarP(&o.fixedStrings, "fixed-strings", "F", false, "treat patterns as literal strings")
	f.IntVarP(&o.context, "context", "C", 0, "lines of context before and after each match")

	f.IntVar(&o.tail, "tail", 0, "number of lines from the end to read; negative reads all")
	f.StringVar(&o.since, "since", "", "only logs newer than a relative duration (10m) or timestamp")
	f.BoolVarP(&o.follow, "follow", "f", false, "keep reading new output")

	f.BoolVar(&o.json, "json", false, "write JSON Lines instead of text")
	f.StringVar(&o.color, "color", "", "colorize output: auto, always, never")
	f.BoolVar(&o.meta, "meta", false, "prefix lines with timestamp, stream and level")
	f.BoolVarP(&o.number, "number", "n", false, "prefix lines with their index")
	f.StringVar(&o.separator, "separator", "", "line printed between groups")
	f.StringVarP(&o.output, "output", "o", "", "also write groups to this file")
	f.BoolVar(&o.stats, "stats", false, "print a summary to stderr when done")
	f.BoolVar(&o.tui, "tui", false, "browse groups in an interactive view")

	cmd.AddCommand(
		newDockerCmd(o),
		newKubeCmd(o),
		newComposeCmd(o),
		newExecCmd(o),
		newFileCmd(o),
	)
	return cmd
}

// load resolves the configuration file and overlays every flag that was set.
func (o *options) load(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("level") {
		cfg.Filter.MinLevel = o.level
	}
	if flags.Changed("pattern") {
		cfg.Filter.Pattern = o.pattern
	}
	if flags.Changed("exclude") {
		cfg.Filter.ExcludePattern = o.exclude
	}
	if flags.Changed("case-sensitive") {
		cfg.Filter.CaseSensitive = o.caseSensitive
	}
	if flags.Changed("fixed-strings") {
		cfg.Filter.FixedStrings = o.fixedStrings
	}
	if flags.Changed("context") {
		cfg.Filter.ContextLines = o.context
	}
	if flags.Changed("tail") {
		cfg.Sources.Tail = o.tail
	}
	if flags.Changed("json") && o.json {
		cfg.Output.Format = "json"
	}
	if flags.Changed("color") {
		cfg.Output.Color = o.color
	}
	if flags.Changed("meta") {
		cfg.Output.Meta = o.meta
	}
	if flags.Changed("number") {
		cfg.Output.Number = o.number
	}
	if flags.Changed("separator") {
		cfg.Output.Separator = o.separator
	}
	if flags.Changed("output") {
		cfg.Output.File = o.output
	}
	if flags.Changed("stats") {
		cfg.Output.Stats = o.stats
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// localTail is the tail for stdin and files, which read everything unless --tail is given.
func (o *options) localTail(cmd *cobra.Command) int {
	if cmd.Flags().Changed("tail") {
		return o.tail
	}
	return 0
}

// run resolves configuration, builds the filter before touching the source,
// then streams groups to the sinks or the TUI.
func (o *options) run(cmd *cobra.Command, newSource sourceFunc) error {
	cfg, err := o.load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	fopts, err := cfg.FilterOptions()
	if err != nil {
		return err
	}
	spec, err := filter.NewSpec(fopts)
	if err != nil {
		return err
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	log.Debug("resolved source", zap.String("source", src.Name()))

	stats := monitor.NewStats()
	if o.tui {
		err = tui.Run(cmd.Context(), &tui.RunConfig{
			Source:    src,
			Spec:      spec,
			Stats:     stats,
			Separator: cfg.Output.Separator,
			Logger:    log,
		})
	} else {
		var sinks []sink.Sink
		sinks, err = buildSinks(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		err = pipeline.Run(cmd.Context(), &pipeline.Config{
			Source: src,
			Spec:   spec,
			Sinks:  sinks,
			Stats:  stats,
			Logger: log,
		})
	}

	if cfg.Output.Stats {
		fmt.Fprintln(cmd.ErrOrStderr(), stats.Summary())
	}
	return err
}

func buildSinks(cfg *config.Config, stdout io.Writer) ([]sink.Sink, error) {
	topts := sink.TerminalOptions{
		Meta:      cfg.Output.Meta,
		Number:    cfg.Output.Number,
		Separator: cfg.Output.Separator,
	}

	var sinks []sink.Sink
	switch cfg.Output.Format {
	case "json":
		sinks = append(sinks, sink.NewJSONSink(stdout))
	default:
		f, _ := stdout.(*os.File)
		opts := topts
		opts.Color = sink.ColorEnabled(cfg.Output.Color, f)
		sinks = append(sinks, sink.NewTerminalSink(stdout, opts))
	}

	if cfg.Output.File != "" {
		fs, err := sink.NewFileSink(cfg.Output.File, cfg.Output.Format, topts)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}
	return sinks, nil
}
