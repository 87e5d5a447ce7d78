package configuration

import (
	"bufio"
	"os"
	"strings"

	"vidtube/infrastructure/logger"
)

// EnvFiles lists the dotenv files read before config.json is decoded.
// VIDTUBE_ENV_FILE replaces the defaults with a comma separated list.
func EnvFiles() []string {
	if v := os.Getenv("VIDTUBE_ENV_FILE"); v != "" {
		var files []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				files = append(files, p)
			}
		}
		return files
	}
	return []string{"config.env", ".env"}
}

// LoadEnvFromFile loads KEY=VALUE pairs (optionally prefixed with `export`)
// from each readable file and returns the files it read. Variables already
// set in the process environment win.
func LoadEnvFromFile(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
			key, val, ok := strings.Cut(line, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				continue
			}
			val = strings.Trim(strings.TrimSpace(val), "\"'")
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
		if err := scanner.Err(); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Env file partially read")
		}
		_ = f.Close()
		loaded = append(loaded, p)
	}
	return loaded
}
