package antilog

import "github.com/philipp01105/napier/core"

// Filter is the level and tag predicate most antilogs embed.
// The zero value enables every level and every tag.
type Filter struct {
	// MinLevel is the lowest level that passes
	MinLevel core.Level
	// Tags, when non-empty, lists the only tags that pass. Include ""
	// to let untagged calls through.
	Tags []string
	// ExcludeTags lists tags that never pass
	ExcludeTags []string
}

// Enabled reports whether a call at level with tag passes the filter
func (f *Filter) Enabled(level core.Level, tag string) bool {
	if level < f.MinLevel {
		return false
	}
	for _, t := range f.ExcludeTags {
		if t == tag {
			return false
		}
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
