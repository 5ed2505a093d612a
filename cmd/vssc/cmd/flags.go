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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Common flags, shared between every subcommand.
const (
	flagSource     flagName = "source"
	flagInclude    flagName = "include"
	flagOverlay    flagName = "overlay"
	flagUnits      flagName = "units"
	flagQuantities flagName = "quantities"
	flagTypes      flagName = "types"
	flagWhitelist  flagName = "whitelist"
	flagStrict     flagName = "strict"
	flagNoExpand   flagName = "no-expand"
	flagVerbosity  flagName = "verbosity"
	flagLogFile    flagName = "log-file"
	flagOut        flagName = "out"

	// export id-only flags.
	flagPrior         flagName = "prior"
	flagLayer         flagName = "layer"
	flagValidateOnly  flagName = "validate-only"
	flagCaseSensitive flagName = "case-sensitive"
)

func addCommonFlags(f *pflag.FlagSet) {
	f.String(string(flagSource), "", "path to the base vspec source file")
	f.StringArray(string(flagInclude), nil, "directory searched for #include targets (repeatable)")
	f.StringArray(string(flagOverlay), nil, "overlay vspec file, applied in order (repeatable)")
	f.StringArray(string(flagUnits), nil, "unit definition file (repeatable)")
	f.StringArray(string(flagQuantities), nil, "quantity definition file (repeatable)")
	f.StringArray(string(flagTypes), nil, "struct type definition file (repeatable)")
	f.StringArray(string(flagWhitelist), nil, "extended attribute name allowed past the validator (repeatable)")
	f.Bool(string(flagStrict), false, "promote naming-style and unknown-attribute warnings to fatal errors")
	f.Bool(string(flagNoExpand), false, "skip instance expansion (C7), leaving templated FQNs in place")
	f.Int(string(flagVerbosity), 0, "logging verbosity: 0=warn, 1=info, 2=debug")
	f.String(string(flagLogFile), "", "file to append logs to, in addition to stderr")
	f.StringP(string(flagOut), "o", "", "output file or directory; defaults to the exporter's own artifact path")
}

func addExportIDFlags(f *pflag.FlagSet) {
	f.String(string(flagPrior), "", "prior stamped vspec, validated against for UID stability")
	f.Uint8(string(flagLayer), 0, "layer id packed into the high byte of every static UID")
	f.Bool(string(flagValidateOnly), false, "report diagnostics without writing a stamped vspec")
	f.Bool(string(flagCaseSensitive), true, "hash the UID contract case-sensitively")
}

// flagName mirrors the teacher's flag-name-as-typed-constant idiom: a
// flag string used both as its pflag key and as the receiver for the
// typed accessor methods below, so a command can't read back a flag
// under the wrong type without a compile error.
type flagName string

func (f flagName) ensureAdded(cmd *cobra.Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("command %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Bool(cmd *cobra.Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *cobra.Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) StringArray(cmd *cobra.Command) []string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetStringArray(string(f))
	return v
}

func (f flagName) Int(cmd *cobra.Command) int {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

func (f flagName) Uint8(cmd *cobra.Command) uint8 {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetUint8(string(f))
	return v
}
