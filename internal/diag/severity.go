package diag

// Severity mirrors the compiler's diagnostic categories. Ordering matters:
// a higher value is more severe.
type Severity uint8

const (
	SevMessage Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevMessage: "MESSAGE",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
