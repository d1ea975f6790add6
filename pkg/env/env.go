package env

import (
	"os"
	"strings"
)

// Prefix namespaces process-level variables read outside pkg/config.
const Prefix = "MUSTT_"

// Get returns the trimmed value of MUSTT_<key>, then <key>, then fallback.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
