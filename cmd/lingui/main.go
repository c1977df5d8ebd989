package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/lingui/catalog/internal/config"
	"github.com/lingui/catalog/internal/pipeline"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ERR:", err)
		os.Exit(1)
	}
}

var (
	ErrNoCommand      = errors.New("no command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrLogFormat      = errors.New("unsupported log format")
)

const commandList = "[merge,compile,convert]"

func run(osArgs []string) error {
	return newApp().Run(osArgs)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lingui",
		Usage: "merge, convert and compile translation catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "configuration file (.toml, .yaml or .json)",
				Value:   "lingui.toml",
				Aliases: []string{"c"},
				EnvVars: []string{"LINGUI_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable verbose logging",
				Aliases: []string{"v"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Usage:   "log errors only and don't print statistics",
				Aliases: []string{"q"},
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format: pretty, text or json",
				Value: "pretty",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "merge",
				Usage: "merge extracted messages into the catalogs",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "next",
						Usage:    "JSON catalog of extracted messages, repeat to combine passes",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "overwrite edited source locale translations",
					},
				},
				Action: mergeAction,
			},
			{
				Name:  "compile",
				Usage: "compile the catalogs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "leave missing translations empty and fail on compile errors",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "output format: json or go",
					},
				},
				Action: compileAction,
			},
			{
				Name:  "convert",
				Usage: "convert between .po files and JSON catalogs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "input file", Required: true},
					&cli.StringFlag{Name: "out", Usage: "output file", Required: true},
					&cli.StringFlag{Name: "locale", Usage: "locale of the catalog"},
				},
				Action: convertAction,
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Present() {
				return fmt.Errorf("%w %q, use either of: %s",
					ErrUnknownCommand, ctx.Args().First(), commandList)
			}
			return fmt.Errorf("%w, use either of: %s", ErrNoCommand, commandList)
		},
	}
}

func newLogger(ctx *cli.Context) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(ctx.App.ErrWriter)
	switch f := ctx.String("log-format"); f {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors:  true,
			DisableSorting: true,
		})
	case "pretty":
		log.SetFormatter(&prefixed.TextFormatter{
			DisableTimestamp: true,
			ForceFormatting:  true,
			DisableSorting:   true,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrLogFormat, f)
	}
	switch {
	case ctx.Bool("quiet"):
		log.SetLevel(logrus.ErrorLevel)
	case ctx.Bool("verbose"):
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log, nil
}

// newPipeline loads the configuration. Relative catalog paths are
// resolved against the directory of the configuration file.
func newPipeline(ctx *cli.Context) (*pipeline.Pipeline, error) {
	log, err := newLogger(ctx)
	if err != nil {
		return nil, err
	}
	path := ctx.String("config")
	conf, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return pipeline.New(conf, filepath.Dir(path), log), nil
}

func mergeAction(ctx *cli.Context) error {
	start := time.Now()
	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("overwrite") {
		p.Config.Overwrite = ctx.Bool("overwrite")
	}

	files := ctx.StringSlice("next")
	for i, f := range files {
		if files[i], err = filepath.Abs(f); err != nil {
			return fmt.Errorf("resolving %q: %w", f, err)
		}
	}
	next, err := p.LoadNext(ctx.Context, files...)
	if err != nil {
		return err
	}
	if err := p.Merge(ctx.Context, next); err != nil {
		return err
	}

	if !ctx.Bool("quiet") {
		w := ctx.App.ErrWriter
		printCommonStats(w, &p.Stats)
		fmt.Fprintf(w, "messages/obsolete: %d/%d\n",
			p.Stats.Messages.Load(), p.Stats.Obsolete.Load())
		fmt.Fprintf(w, "missing: %d\n", p.Stats.Missing.Load())
		fmt.Fprintf(w, "time total: %s\n", time.Since(start).String())
	}
	return nil
}

func compileAction(ctx *cli.Context) error {
	start := time.Now()
	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("strict") {
		p.Config.Compile.Strict = ctx.Bool("strict")
	}
	if ctx.IsSet("format") {
		p.Config.Compile.Format = ctx.String("format")
		if err := p.Config.Validate(); err != nil {
			return err
		}
	}
	if err := p.Compile(ctx.Context); err != nil {
		return err
	}

	if !ctx.Bool("quiet") {
		w := ctx.App.ErrWriter
		printCommonStats(w, &p.Stats)
		fmt.Fprintf(w, "missing/errors: %d/%d\n",
			p.Stats.Missing.Load(), p.Stats.CompileErrors.Load())
		fmt.Fprintf(w, "time total: %s\n", time.Since(start).String())
	}
	return nil
}

func convertAction(ctx *cli.Context) error {
	log, err := newLogger(ctx)
	if err != nil {
		return err
	}
	// The configuration is optional for conversions.
	p := pipeline.New(nil, "", log)
	if ctx.IsSet("config") {
		if p, err = newPipeline(ctx); err != nil {
			return err
		}
		p.Dir = ""
	}
	if err := p.Convert(ctx.String("in"), ctx.String("out"), ctx.String("locale")); err != nil {
		return err
	}
	if !ctx.Bool("quiet") {
		w := ctx.App.ErrWriter
		printCommonStats(w, &p.Stats)
		fmt.Fprintf(w, "messages: %d\n", p.Stats.Messages.Load())
	}
	return nil
}

func printCommonStats(w io.Writer, s *pipeline.Statistics) {
	fmt.Fprintf(w, "files read/written: %d/%d\n", s.FilesRead.Load(), s.FilesWritten.Load())
	fmt.Fprintf(w, "plural warnings: %d\n", s.Warnings.Load())
}
