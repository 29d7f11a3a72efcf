package config

import (
	"log/slog"
	"os"
	"strconv"
)

// ApplyEnvOverrides applies the CLASSMETRICS_* environment overrides.
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Engine.Workers, "CLASSMETRICS_WORKERS")
	setEnvString(&cfg.Output.Dir, "CLASSMETRICS_OUTPUT_DIR")
	setEnvString(&cfg.DB.Path, "CLASSMETRICS_DB_PATH")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("ignoring env override", "key", key, "value", val, "error", err)
		return
	}
	slog.Debug("applying env override", "key", key, "value", val)
	*target = i
}
