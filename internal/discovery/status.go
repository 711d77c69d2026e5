package discovery

import (
	"fmt"
)

// Status is the classified outcome of a probe or the final status of a report.
type Status int

// Statuses in ascending order of precedence. Only the three strongest
// ever appear in a Report.
const (
	StatusInconclusive Status = iota
	StatusNotFound
	StatusNeedsPermission
	StatusNeedsEula
	StatusAvailable
)

var statusNames = map[Status]string{
	StatusInconclusive:    "inconclusive",
	StatusNotFound:        "not_found",
	StatusNeedsPermission: "needs_permission",
	StatusNeedsEula:       "needs_eula",
	StatusAvailable:       "available",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Reportable reports whether the status can surface in a Report.
func (s Status) Reportable() bool {
	return s >= StatusNeedsPermission
}

// NeedsAction reports whether the user must act before the model can be used.
func (s Status) NeedsAction() bool {
	return s == StatusNeedsEula || s == StatusNeedsPermission
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}
