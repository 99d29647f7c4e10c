package feature

// Flag is named such that checking for a feature uses `feature.Flag.Enabled(feature.TerminateEmptyValues)`.
var Flag = New()

// EnvName is the environment variable the helper reads feature flags from.
const EnvName = "XATTR_HELPER_FEATURES"

// flag names are written in kebab-case
const (
	RetrySizeChanges     FlagName = "retry-size-changes"
	TerminateEmptyValues FlagName = "terminate-empty-values"
)

func init() {
	Flag.SetFlags(map[FlagName]FlagDesc{
		RetrySizeChanges:     {Type: Alpha, Description: "repeat the size query and fetch (up to 3 times) if an attribute list or value grew in between, instead of failing with ERANGE."},
		TerminateEmptyValues: {Type: Alpha, Description: "end every attribute line with a newline, also for empty values. Changes the output format."},
	})
}
