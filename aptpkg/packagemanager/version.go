package packagemanager

import (
	"encoding/json"
	"strings"
)

// noneMarker is what apt prints when there is no version to report.
const noneMarker = "(none)"

// Version is an optional package version. The zero value is None, which is
// distinct from any present version string.
type Version struct {
	value string
	set   bool
}

var None Version

func NewVersion(v string) Version {
	return Version{value: v, set: true}
}

// ParseVersion normalizes a version as printed by apt.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == noneMarker {
		return None
	}
	return NewVersion(s)
}

func (v Version) Get() (string, bool) {
	return v.value, v.set
}

func (v Version) IsNone() bool {
	return !v.set
}

func (v Version) String() string {
	if !v.set {
		return noneMarker
	}
	return v.value
}

func (v Version) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
