package config

import (
	"os"
	"strconv"
	"strings"
)

func overrideString(dst *string, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		*dst = v
	}
}

func overrideBool(dst *bool, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func overrideInt(dst *int, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func overrideStringSlice(dst *[]string, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok {
		if v == "" {
			*dst = nil
			return
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		*dst = parts
	}
}
