package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func lookupDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func lookupInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", key, err)
	}
	return n, nil
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	return d, nil
}

// lookupSecret reads KEY, falling back to the contents of the file named by
// KEY_FILE.
func lookupSecret(key string) (value string, ok bool, err error) {
	if value, ok := os.LookupEnv(key); ok {
		return value, true, nil
	}
	path, ok := os.LookupEnv(key + "_FILE")
	if !ok {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("unable to read %s_FILE: %w", key, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}
