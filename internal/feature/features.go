package feature

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/restic/get-all-xattrs/internal/errors"
)

type state string

// FlagName identifies a feature flag. Names are written in kebab-case.
type FlagName string

const (
	// Alpha features are disabled by default. They change the helper's
	// behavior or wire format and may be changed or removed at any time.
	Alpha state = "alpha"
	// Beta features are enabled by default.
	Beta state = "beta"
	// Stable features are always enabled
	Stable state = "stable"
	// Deprecated features are always disabled
	Deprecated state = "deprecated"
)

type FlagDesc struct {
	Type        state
	Description string
}

type FlagSet struct {
	flags   map[FlagName]*FlagDesc
	enabled map[FlagName]bool
}

func New() *FlagSet {
	return &FlagSet{}
}

func getDefault(phase state) bool {
	switch phase {
	case Alpha, Deprecated:
		return false
	case Beta, Stable:
		return true
	default:
		panic("unknown feature phase")
	}
}

func (f *FlagSet) SetFlags(flags map[FlagName]FlagDesc) {
	f.flags = map[FlagName]*FlagDesc{}
	f.enabled = map[FlagName]bool{}

	for name, flag := range flags {
		fcopy := flag
		f.flags[name] = &fcopy
		f.enabled[name] = getDefault(fcopy.Type)
	}
}

// Apply parses a comma-separated list of `name[=bool]` entries and updates
// the flag set. Nothing is changed if any entry is invalid.
func (f *FlagSet) Apply(flags string, logWarning func(string)) error {
	if flags == "" {
		return nil
	}

	selection := make(map[FlagName]bool)

	for _, flag := range strings.Split(flags, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(flag), "=")
		if !found {
			value = "true"
		}

		isEnabled, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Fatalf("failed to parse value %q for feature flag %v: %v", value, name, err)
		}

		if f.flags[FlagName(name)] == nil {
			return errors.Fatalf("unknown feature flag %q, known flags: %v", name, strings.Join(f.names(), ", "))
		}

		selection[FlagName(name)] = isEnabled
	}

	for name, value := range selection {
		switch f.flags[name].Type {
		case Alpha, Beta:
			f.enabled[name] = value
		case Stable:
			logWarning(fmt.Sprintf("feature flag %q is always enabled and will be removed in a future release", name))
		case Deprecated:
			logWarning(fmt.Sprintf("feature flag %q is always disabled and will be removed in a future release", name))
		default:
			panic("unknown feature phase")
		}
	}

	return nil
}

func (f *FlagSet) Enabled(name FlagName) bool {
	isEnabled, ok := f.enabled[name]
	if !ok {
		panic(fmt.Sprintf("unknown feature flag %v", name))
	}

	return isEnabled
}

func (f *FlagSet) names() []string {
	names := make([]string, 0, len(f.flags))
	for name := range f.flags {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Help contains information about a feature.
type Help struct {
	Name        string
	Type        string
	Default     bool
	Enabled     bool
	Description string
}

func (f *FlagSet) List() []Help {
	var help []Help

	for _, name := range f.names() {
		flag := f.flags[FlagName(name)]
		help = append(help, Help{
			Name:        name,
			Type:        string(flag.Type),
			Default:     getDefault(flag.Type),
			Enabled:     f.enabled[FlagName(name)],
			Description: flag.Description,
		})
	}

	return help
}
