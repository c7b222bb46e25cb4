package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvString reads a trimmed environment variable, reporting whether it was
// set to a non-empty value.
func EnvString(name string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable. The second return reports
// whether the variable was set at all.
func EnvInt(name string) (int, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s=%q is not an integer", name, raw)
	}
	return value, true, nil
}
