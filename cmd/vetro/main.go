package main

import (
	"flag"
	"fmt"
	"os"

	"vetro/pkg/driver"
	"vetro/pkg/errors"
	"vetro/pkg/intrinsics"
	"vetro/pkg/repair"
)

func main() {
	planFlag := flag.String("plan", "", "repair plan YAML file (default: the embedded enablements)")
	configFlag := flag.String("config", "", "TOML config file")
	formatFlag := flag.String("format", "table", "output format: table or json")
	quietFlag := flag.String("quiet", "", "comma-separated results to suppress, e.g. property-absent,root-absent")
	failFlag := flag.Bool("fail-on-blocked", false, "exit 1 when a non-configurable property blocks repair")
	verboseFlag := flag.Bool("verbose", false, "debug logging")

	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Usage: vetro [-plan plan.yaml] [-config vetro.toml] [-format table|json] [-quiet results] [-fail-on-blocked] [-verbose]\n")
		os.Exit(64) // Exit code 64: command line usage error
	}

	opts := options{
		planPath:      *planFlag,
		format:        *formatFlag,
		quiet:         *quietFlag,
		failOnBlocked: *failFlag,
		verbose:       *verboseFlag,
	}
	if *configFlag != "" {
		if err := applyConfig(&opts, *configFlag, setFlagNames()); err != nil {
			fmt.Fprintf(os.Stderr, "vetro: %v\n", err)
			os.Exit(64)
		}
	}
	if opts.format != "table" && opts.format != "json" {
		fmt.Fprintf(os.Stderr, "vetro: unknown format %q (valid: table, json)\n", opts.format)
		os.Exit(64)
	}
	quiet, err := parseQuiet(opts.quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vetro: %v\n", err)
		os.Exit(64)
	}

	logger := newLogger(opts.verbose)

	plan := driver.DefaultPlan()
	planSource := "embedded enablements"
	if opts.planPath != "" {
		data, err := os.ReadFile(opts.planPath)
		if err != nil {
			logger.Error().Err(err).Str("plan", opts.planPath).Msg("cannot read plan")
			os.Exit(70) // Exit code 70: internal software error
		}
		var diags []errors.VetroError
		plan, diags = repair.DecodeYAML(data)
		if len(diags) > 0 {
			errors.DisplayErrors(os.Stderr, string(data), diags)
			logger.Warn().Int("diagnostics", len(diags)).Msg("plan decoded with diagnostics; flagged entries are skipped")
		}
		planSource = opts.planPath
	}
	if plan == nil || plan.Kind() != repair.KindSubtree || plan.Len() == 0 {
		fmt.Fprintf(os.Stderr, "vetro: plan %s has no categories to repair\n", planSource)
		os.Exit(64)
	}

	session, err := driver.New()
	if err != nil {
		logger.Error().Err(err).Msg("realm construction failed")
		os.Exit(70)
	}
	roots := session.Roots()
	logger.Debug().
		Int("named", len(roots[intrinsics.NamedCategory])).
		Int("anonymous", len(roots[intrinsics.AnonymousCategory])).
		Str("plan", planSource).
		Msg("repairing")

	outcomes := session.RepairWith(plan)

	switch opts.format {
	case "json":
		if err := writeJSON(os.Stdout, outcomes, quiet); err != nil {
			logger.Error().Err(err).Msg("writing report")
			os.Exit(70)
		}
	default:
		writeTable(os.Stdout, outcomes, quiet, stdoutIsTerminal())
	}

	counts := repair.CountByResult(outcomes)
	logger.Info().
		Int("repaired", counts[repair.Repaired]).
		Int("blocked", counts[repair.NonConfigurable]).
		Int("absent", counts[repair.PropertyAbsent]+counts[repair.RootAbsent]).
		Msg("repair complete")

	if opts.failOnBlocked && repair.HasBlocked(outcomes) {
		for _, o := range repair.Filter(outcomes, repair.NonConfigurable) {
			logger.Warn().Str("path", o.Path).Msg("blocked: non-configurable")
		}
		os.Exit(1)
	}
}
