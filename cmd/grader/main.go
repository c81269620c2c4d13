package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/programme-lv/grader/internal/config"
	"github.com/urfave/cli/v3"
)

func main() {
	setupLogger(slog.LevelInfo)

	if err := config.LoadEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

func env(name string) cli.ValueSourceChain {
	return cli.EnvVars(config.EnvPrefix + name)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "grader",
		Usage:     "compile a program and grade it against the tests in a directory",
		ArgsUsage: "<program>",
		Description: `Examples:
   grader A             test if A produces the expected output for every input file
   grader -o A          display the output of A for every input file
   grader -c B A        compare A against the correct program B on every input file
   grader -g A          compare all submissions in the folder against A`,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "time limit in seconds",
				Sources: env("TIME"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "print input and outputs of wrong answers, compile with warnings",
				Sources: env("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "checker",
				Aliases: []string{"C"},
				Usage:   "program deciding if an output is correct: checker <input> <expected> <actual>",
				Sources: env("CHECKER"),
			},
			&cli.BoolFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "only display the output of the program for every input",
			},
			&cli.StringFlag{
				Name:    "correct",
				Aliases: []string{"c"},
				Usage:   "compare against the output of this correct program",
			},
			&cli.BoolFlag{
				Name:    "grade",
				Aliases: []string{"g"},
				Usage:   "compare every submission in the folder against the program",
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "first submission to compare when sweeping",
			},
			&cli.StringFlag{
				Name:    "in",
				Usage:   "input file pattern, $ stands for the test label",
				Sources: env("IN"),
			},
			&cli.StringFlag{
				Name:    "ans",
				Usage:   "expected output file pattern relative to the input directory, $ stands for the test label",
				Sources: env("ANS"),
			},
			&cli.FloatFlag{
				Name:    "grace",
				Usage:   "seconds a program may run past the time limit before it is killed",
				Sources: env("GRACE"),
			},
			&cli.FloatFlag{
				Name:    "eps",
				Usage:   "tolerance for decimal tokens",
				Sources: env("EPS"),
			},
			&cli.IntFlag{
				Name:    "parallel",
				Usage:   "submissions to compare at once when sweeping",
				Sources: env("PARALLEL"),
			},
			&cli.StringFlag{
				Name:    "sweep-pattern",
				Usage:   "regular expression submission file names must match",
				Sources: env("SWEEP_PATTERN"),
			},
			&cli.StringFlag{
				Name:    "langs",
				Usage:   "TOML file adding or overriding languages",
				Sources: env("LANGS"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file",
				Value:   config.FileName,
				Sources: env("CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "no-cache",
				Usage:   "always recompile",
				Sources: env("NO_CACHE"),
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "stream run events to this NATS server",
				Sources: env("NATS_URL"),
			},
			&cli.StringFlag{
				Name:    "nats-subject",
				Usage:   "NATS subject run events are published to",
				Sources: env("NATS_SUBJECT"),
			},
			&cli.StringFlag{
				Name:    "sqs-url",
				Usage:   "send run events to this SQS queue",
				Sources: env("SQS_URL"),
			},
			&cli.StringFlag{
				Name:    "sqs-region",
				Usage:   "AWS region of the SQS queue",
				Sources: env("SQS_REGION"),
			},
			&cli.StringFlag{
				Name:    "report",
				Usage:   "write a JSON report of the run to this file",
				Sources: env("REPORT"),
			},
		},
		Action: run,
	}
}

// loadConfig layers the config file and the flags that were set over the defaults.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("time") {
		cfg.TimeLimit = config.Seconds(cmd.Float("time"))
	}
	if cmd.IsSet("grace") {
		cfg.Grace = config.Seconds(cmd.Float("grace"))
	}
	if cmd.IsSet("eps") {
		cfg.Epsilon = cmd.Float("eps")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("no-cache") {
		cfg.NoCache = cmd.Bool("no-cache")
	}
	if cmd.IsSet("parallel") {
		cfg.Parallel = cmd.Int("parallel")
	}

	strs := map[string]*string{
		"checker":       &cfg.Checker,
		"in":            &cfg.Input,
		"ans":           &cfg.Answer,
		"sweep-pattern": &cfg.SweepPattern,
		"langs":         &cfg.LanguagesFile,
		"nats-url":      &cfg.NATSURL,
		"nats-subject":  &cfg.NATSSubject,
		"sqs-url":       &cfg.SQSURL,
		"sqs-region":    &cfg.SQSRegion,
		"report":        &cfg.ReportPath,
	}
	for name, dst := range strs {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}

	return cfg, cfg.Validate()
}
