// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/covesa/vssc/encoding"
	"github.com/covesa/vssc/internal/pipeline"
	"github.com/covesa/vssc/internal/uid"
	vsserrors "github.com/covesa/vssc/vss/errors"
)

// Exit codes per the CLI's external contract: 0 success, 1 validation
// failure, 2 usage error, 3 I/O error.
const (
	exitSuccess          = 0
	exitValidationFailed = 1
	exitUsage            = 2
	exitIO               = 3
)

// cliError carries the exit code its cause should produce, so Main
// can translate any returned error into the right process exit
// status without re-inspecting it.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &cliError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func ioErrorf(format string, args ...any) error {
	return &cliError{code: exitIO, err: fmt.Errorf(format, args...)}
}

func validationError() error {
	return &cliError{code: exitValidationFailed, err: fmt.Errorf("compilation failed validation")}
}

// exitCode extracts the process exit code for err, defaulting to 1
// for an error this package did not originate.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if ce, ok := err.(*cliError); ok {
		return ce.code
	}
	return exitValidationFailed
}

// getLang mirrors the teacher's locale discovery in cmd/cue/cmd, used
// to localize the pluralized diagnostic summary.
func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}

// newLogger builds a leveled slog.Logger from the --verbosity and
// --log-file flags, writing to stderr and, if set, additionally
// appending to the log file.
func newLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	switch flagVerbosity.Int(cmd) {
	case 1:
		level = slog.LevelInfo
	default:
		if flagVerbosity.Int(cmd) >= 2 {
			level = slog.LevelDebug
		}
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	if path := flagLogFile.String(cmd); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, ioErrorf("cannot open log file %q: %v", path, err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = func() { f.Close() }
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closer, nil
}

// buildConfig assembles a pipeline.Config from the common flags
// shared by every export subcommand.
func buildConfig(cmd *cobra.Command) (pipeline.Config, error) {
	source := flagSource.String(cmd)
	if source == "" {
		return pipeline.Config{}, usageErrorf("--%s is required", flagSource)
	}
	return pipeline.Config{
		Source:        source,
		IncludeDirs:   flagInclude.StringArray(cmd),
		Overlays:      flagOverlay.StringArray(cmd),
		UnitFiles:     flagUnits.StringArray(cmd),
		QuantityFiles: flagQuantities.StringArray(cmd),
		TypeFiles:     flagTypes.StringArray(cmd),
		Whitelist:     flagWhitelist.StringArray(cmd),
		Strict:        flagStrict.Bool(cmd),
		Expand:        !flagNoExpand.Bool(cmd),
	}, nil
}

// uidOptionsFromFlags builds the static-UID engine's Options from the
// export-id-only flags.
func uidOptionsFromFlags(cmd *cobra.Command) uid.Options {
	layer := flagLayer.Uint8(cmd)
	return uid.Options{
		CaseSensitive: flagCaseSensitive.Bool(cmd),
		Layer:         layer,
		HasLayer:      layer != 0,
	}
}

// printDiagnostics reports a pluralized one-line summary followed by
// every diagnostic, one per line, localized the way the teacher's
// cmd/cue/cmd links x/text/message as its printer.
func printDiagnostics(w io.Writer, errs *vsserrors.List) {
	if errs == nil {
		return
	}
	sanitized := errs.Sanitize()
	all := sanitized.All()
	if len(all) == 0 {
		return
	}

	p := message.NewPrinter(getLang())

	var nErr, nWarn, nInfo int
	for _, e := range all {
		switch e.Severity() {
		case vsserrors.Fatal:
			nErr++
		case vsserrors.Warning:
			nWarn++
		default:
			nInfo++
		}
	}
	p.Fprintf(w, "%s\n", summaryLine(nErr, nWarn, nInfo))
	for _, e := range all {
		fmt.Fprintln(w, e.Error())
	}
}

func summaryLine(nErr, nWarn, nInfo int) string {
	plural := func(n int, noun string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, noun)
		}
		return fmt.Sprintf("%d %ss", n, noun)
	}
	return fmt.Sprintf("%s, %s, %s", plural(nErr, "error"), plural(nWarn, "warning"), plural(nInfo, "note"))
}

// writeArtifacts writes every artifact an exporter produced, either
// under outDir (when multiple artifacts or outDir is a directory) or
// directly to outPath when exactly one artifact was produced and
// outPath does not already exist as a directory.
func writeArtifacts(artifacts []encoding.Artifact, outPath string) error {
	if outPath == "" {
		for _, a := range artifacts {
			if err := writeOne(a.Path, a.Data); err != nil {
				return err
			}
		}
		return nil
	}
	if len(artifacts) == 1 {
		if fi, err := os.Stat(outPath); err != nil || !fi.IsDir() {
			return writeOne(outPath, artifacts[0].Data)
		}
	}
	for _, a := range artifacts {
		if err := writeOne(filepath.Join(outPath, a.Path), a.Data); err != nil {
			return err
		}
	}
	return nil
}

func writeOne(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioErrorf("cannot create output directory %q: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ioErrorf("cannot write %q: %v", path, err)
	}
	return nil
}
