package app

import (
	"fmt"
	"os"
	"strings"
)

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment, in order, so later files override earlier ones. Missing
// files are skipped. Values are taken literally; no variable expansion.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read env file %s: %w", p, err)
		}
		for _, line := range strings.Split(string(b), "\n") {
			key, val, ok := parseEnvLine(line)
			if !ok {
				continue
			}
			_ = os.Setenv(key, val)
		}
	}
	return nil
}

// parseEnvLine splits one dotenv line into a key and an unquoted value.
// Blank lines, comments, and lines without a key are not ok. An
// "export " prefix is tolerated so a file can double as shell source.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(val)), true
}

func unquote(val string) string {
	if len(val) < 2 {
		return val
	}
	if q := val[0]; (q == '"' || q == '\'') && val[len(val)-1] == q {
		return val[1 : len(val)-1]
	}
	return val
}
