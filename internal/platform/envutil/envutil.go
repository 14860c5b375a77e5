package envutil

import (
	"os"
	"strconv"
	"strings"
)

func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return val
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	raw := strings.ToLower(GetEnv(key, ""))
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultVal
	}
}
