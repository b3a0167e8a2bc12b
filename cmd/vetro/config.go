package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"vetro/pkg/errors"
	"vetro/pkg/repair"
)

// options collects the effective CLI settings after flag and config
// file layering. Flags set on the command line always win; config file
// entries fill in the rest.
type options struct {
	planPath      string
	format        string
	quiet         string
	failOnBlocked bool
	verbose       bool
}

// fileConfig mirrors the TOML config file shape.
type fileConfig struct {
	Plan          string   `toml:"plan"`
	Format        string   `toml:"format"`
	Quiet         []string `toml:"quiet"`
	FailOnBlocked bool     `toml:"fail_on_blocked"`
	Verbose       bool     `toml:"verbose"`
}

// applyConfig layers path's settings under the flags the user did not
// set. IsDefined keeps zero values in the file distinguishable from
// keys that are simply missing.
func applyConfig(opts *options, path string, setFlags map[string]bool) error {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("reading %s: %v", path, err)).CausedBy(err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.NewConfigError(fmt.Sprintf("%s has unknown keys: %v", path, undecoded))
	}
	if md.IsDefined("plan") && !setFlags["plan"] {
		opts.planPath = cfg.Plan
	}
	if md.IsDefined("format") && !setFlags["format"] {
		opts.format = cfg.Format
	}
	if md.IsDefined("quiet") && !setFlags["quiet"] {
		opts.quiet = strings.Join(cfg.Quiet, ",")
	}
	if md.IsDefined("fail_on_blocked") && !setFlags["fail-on-blocked"] {
		opts.failOnBlocked = cfg.FailOnBlocked
	}
	if md.IsDefined("verbose") && !setFlags["verbose"] {
		opts.verbose = cfg.Verbose
	}
	return nil
}

// setFlagNames records which flags appeared on the command line.
func setFlagNames() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

var allResults = []repair.Result{
	repair.Repaired,
	repair.AlreadyAccessor,
	repair.PropertyAbsent,
	repair.NonConfigurable,
	repair.RootAbsent,
}

// parseQuiet translates a comma-separated result list into a
// suppression set, matching the names Result.String() reports.
func parseQuiet(list string) (map[repair.Result]bool, error) {
	quiet := make(map[repair.Result]bool)
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		matched := false
		for _, r := range allResults {
			if strings.EqualFold(name, r.String()) {
				quiet[r] = true
				matched = true
				break
			}
		}
		if !matched {
			names := make([]string, len(allResults))
			for i, r := range allResults {
				names[i] = r.String()
			}
			return nil, errors.NewConfigError(fmt.Sprintf("unknown result %q (valid: %s)", name, strings.Join(names, ", ")))
		}
	}
	return quiet, nil
}
