package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lmittmann/tint"
	"github.com/programme-lv/grader/internal/behave"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/xdg"
)

//go:embed hello.toml
var helloScenarios []byte

type health int

const (
	okay health = iota
	warn
	fail
)

type feedbackRow struct {
	unit    string
	health  health
	message string
}

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen})))

	reg, err := lang.Load(filepath.Join(xdg.New("grader").ConfigDir(), "languages.toml"))
	panicOnError(err)

	cases, err := behave.ParseBytes(helloScenarios)
	panicOnError(err)

	feedback := make([]feedbackRow, 0)
	for _, l := range reg.Languages() {
		row := ensureToolchainOk(l)
		if row.health == okay {
			row = ensureLanguageRuns(l, reg, cases, row)
		}
		feedback = append(feedback, row)
	}

	outputFeedback(feedback)
	for _, row := range feedback {
		if row.health == fail {
			os.Exit(1)
		}
	}
}

func ensureToolchainOk(l *lang.Language) feedbackRow {
	row := feedbackRow{unit: l.Name, health: okay}
	var found []string
	for _, tool := range l.Toolchain() {
		path, err := exec.LookPath(tool)
		if err != nil {
			row.health = fail
			row.message = fmt.Sprintf("%s not found in PATH", tool)
			return row
		}
		found = append(found, path)
	}
	row.message = strings.Join(found, ", ")
	return row
}

// ensureLanguageRuns grades the hello world scenario written in l, if there is one.
func ensureLanguageRuns(l *lang.Language, reg *lang.Registry, cases []behave.Case, row feedbackRow) feedbackRow {
	for _, c := range cases {
		if !handles(l, c) {
			continue
		}

		dir, err := os.MkdirTemp("", "grader-health-")
		panicOnError(err)
		defer os.RemoveAll(dir)

		slog.Info("running scenario", "language", l.ID, "scenario", c.Name)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		report, err := c.Run(ctx, reg, dir)
		if err == nil {
			err = c.Check(report)
		}
		if err != nil {
			row.health = fail
			row.message = err.Error()
			if len(report.Compilations) > 0 && report.Compilations[0].Output != "" {
				row.message += "\n" + report.Compilations[0].Output
			}
		}
		return row
	}

	row.health = warn
	row.message += "\nno hello world scenario"
	return row
}

func handles(l *lang.Language, c behave.Case) bool {
	for _, ext := range c.Extensions() {
		for _, own := range l.Extensions {
			if ext == own {
				return true
			}
		}
	}
	return false
}

func outputFeedback(feedback []feedbackRow) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(pretty_table.Row{"Unit", "Health", "Message"})
	for _, row := range feedback {
		healthCode := ""
		switch row.health {
		case okay:
			healthCode = "OKAY"
		case warn:
			healthCode = "WARN"
		case fail:
			healthCode = "ERROR"
		}

		t.AppendRow(
			pretty_table.Row{
				row.unit,
				healthCode,
				row.message,
			})
	}
	t.SetStyle(pretty_table.StyleColoredDark)
	textColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "OKAY":
			return text.FgHiGreen.Sprint(s)
		case "WARN":
			return text.FgHiYellow.Sprint(s)
		case "ERROR":
			return text.FgHiRed.Sprint(s)
		}
		return ""
	})

	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:        "Health",
			Transformer: textColor,
			Align:       text.AlignCenter,
		},
	})
	t.Render()
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
