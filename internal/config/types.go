package config

// Site type constants
const (
	TypeHTML = "html"
)

// ValidTypes returns all supported site types
func ValidTypes() []string {
	return []string{TypeHTML}
}

// IsValidType checks if the given site type is supported
func IsValidType(t string) bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}
