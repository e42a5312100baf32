package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	CONFIG_ENV_PREFIX = "FM"
)

// ReadConfig loads config.yaml from ./data/ (or the given file) and binds FM_* environment
// variables. A missing config file is not an error, every key has a default.
func ReadConfig(path string) error {
	SetConfigDefaults()

	viper.SetEnvPrefix(CONFIG_ENV_PREFIX)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./data/")
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetConfigDefaults() {
	viper.SetDefault("BENCHMARK_ROOT", "benchmarks")
	viper.SetDefault("OUTPUT_ROOT", "output")
	viper.SetDefault("REF_OUTPUT_ROOT", "output/reference")
	viper.SetDefault("EID", "fm")
	viper.SetDefault("PROFILE_RUNS", 10)
	viper.SetDefault("WORKERS", 4)

	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("MAX_REQUEST_BYTES", 32<<20)
	viper.SetDefault("MAX_NODES", 1<<20)
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "10s")
}
