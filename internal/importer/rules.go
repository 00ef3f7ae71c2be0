package importer

import (
	"os"
	"strconv"
	"strings"
)

// Rules holds the column-discovery labels and the classification denylists
// for an activity export. Header labels are matched case-insensitively
// after trimming; exports from older report versions may omit the optional
// columns entirely, which disables the corresponding filter.
type Rules struct {
	ExecutorHeader string
	ModuleHeader   string
	ActionHeader   string

	// ExecutorFallbackIndex is used when the executor header label is not
	// present in the file. The timestamp column has no label in any known
	// export version and is always positional.
	ExecutorFallbackIndex int
	TimestampIndex        int

	// DeniedExecutors are executor names that never count as activity,
	// including the automation sentinel the store stamps on system actions.
	DeniedExecutors []string
	DeniedModule    string
	CancelAction    string
}

// DefaultRules returns the rules matching the current export format.
func DefaultRules() Rules {
	return Rules{
		ExecutorHeader:        "performed by",
		ModuleHeader:          "module",
		ActionHeader:          "action",
		ExecutorFallbackIndex: 6,
		TimestampIndex:        7,
		DeniedExecutors:       []string{"System Workflow"},
		DeniedModule:          "Deluge",
		CancelAction:          "Cancel",
	}
}

// LoadRules reads rule overrides from TALLY_* environment variables,
// falling back to defaults for any unset values.
func LoadRules() Rules {
	r := DefaultRules()

	if v := os.Getenv("TALLY_EXECUTOR_HEADER"); v != "" {
		r.ExecutorHeader = v
	}
	if v := os.Getenv("TALLY_MODULE_HEADER"); v != "" {
		r.ModuleHeader = v
	}
	if v := os.Getenv("TALLY_ACTION_HEADER"); v != "" {
		r.ActionHeader = v
	}
	if v := os.Getenv("TALLY_EXECUTOR_FALLBACK_INDEX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			r.ExecutorFallbackIndex = n
		}
	}
	if v := os.Getenv("TALLY_TIMESTAMP_INDEX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			r.TimestampIndex = n
		}
	}
	if v := os.Getenv("TALLY_DENY_EXECUTORS"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				r.DeniedExecutors = append(r.DeniedExecutors, name)
			}
		}
	}
	if v := os.Getenv("TALLY_DENY_MODULE"); v != "" {
		r.DeniedModule = v
	}
	if v := os.Getenv("TALLY_CANCEL_ACTION"); v != "" {
		r.CancelAction = v
	}

	return r
}

func (r Rules) executorDenied(name string) bool {
	for _, denied := range r.DeniedExecutors {
		if name == denied {
			return true
		}
	}
	return false
}
