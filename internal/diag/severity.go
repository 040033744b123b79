package diag

// Severity orders diagnostics: Bag.Sort puts higher severities first and
// only SevError fails a compilation.
type Severity uint8

const (
	// SevInfo: заметки без влияния на результат.
	SevInfo Severity = iota
	// SevWarning: шаблон скомпилирован, но, скорее всего, не так, как задумано
	// (неизвестная директива SYN2005 выводится как обычная разметка).
	SevWarning
	// SevError: компиляция шаблона прервана, дерево не построено.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Short is the lowercase label of the one-line output ("warning").
func (s Severity) Short() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
