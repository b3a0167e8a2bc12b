package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"vetro/pkg/repair"
)

// newLogger builds the stderr console logger. Color follows the
// terminal, level follows -verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !stderrIsTerminal()}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var resultColors = map[repair.Result]string{
	repair.Repaired:        "\x1b[32m",
	repair.AlreadyAccessor: "\x1b[36m",
	repair.PropertyAbsent:  "\x1b[90m",
	repair.NonConfigurable: "\x1b[31m",
	repair.RootAbsent:      "\x1b[33m",
}

const colorReset = "\x1b[0m"

// writeTable renders outcomes as an aligned two-column table plus a
// count summary. Paths can carry symbol descriptions in any script,
// so column widths come from runewidth, not len.
func writeTable(w io.Writer, outcomes []repair.Outcome, quiet map[repair.Result]bool, color bool) {
	resultWidth := runewidth.StringWidth("RESULT")
	for _, o := range outcomes {
		if quiet[o.Result] {
			continue
		}
		if width := runewidth.StringWidth(o.Result.String()); width > resultWidth {
			resultWidth = width
		}
	}
	fmt.Fprintf(w, "%s  PATH\n", runewidth.FillRight("RESULT", resultWidth))
	shown := 0
	for _, o := range outcomes {
		if quiet[o.Result] {
			continue
		}
		label := runewidth.FillRight(o.Result.String(), resultWidth)
		if color {
			if code, ok := resultColors[o.Result]; ok {
				label = code + label + colorReset
			}
		}
		fmt.Fprintf(w, "%s  %s\n", label, o.Path)
		shown++
	}
	fmt.Fprintf(w, "\n%s\n", summaryLine(outcomes, shown))
}

// summaryLine tallies every outcome, counting suppressed ones too.
func summaryLine(outcomes []repair.Outcome, shown int) string {
	counts := repair.CountByResult(outcomes)
	parts := make([]string, 0, len(allResults))
	for _, r := range allResults {
		parts = append(parts, fmt.Sprintf("%s %d", r, counts[r]))
	}
	if shown < len(outcomes) {
		return fmt.Sprintf("%d of %d outcomes shown: %s", shown, len(outcomes), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%d outcomes: %s", len(outcomes), strings.Join(parts, ", "))
}

// writeJSON renders one JSON object per outcome, one per line.
func writeJSON(w io.Writer, outcomes []repair.Outcome, quiet map[repair.Result]bool) error {
	enc := json.NewEncoder(w)
	for _, o := range outcomes {
		if quiet[o.Result] {
			continue
		}
		record := struct {
			Path   string `json:"path"`
			Result string `json:"result"`
		}{Path: o.Path, Result: o.Result.String()}
		if err := enc.Encode(&record); err != nil {
			return err
		}
	}
	return nil
}
