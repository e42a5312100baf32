package evaluator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"github.com/spf13/viper"
)

type Config struct {
	EID           string `validate:"required,alphanum"`
	BenchmarkPath string `validate:"required"` // one benchmark file or a directory of benchmarks
	OutputRoot    string `validate:"required"`
	RefOutputRoot string
	Profile       bool
	ProfileRuns   int `validate:"gte=1"`
	Workers       int `validate:"gte=1,lte=256"`
}

// NewConfigFromViper builds the evaluator config from the loaded viper keys.
func NewConfigFromViper() Config {
	return Config{
		EID:           viper.GetString("EID"),
		BenchmarkPath: viper.GetString("BENCHMARK_ROOT"),
		OutputRoot:    viper.GetString("OUTPUT_ROOT"),
		RefOutputRoot: viper.GetString("REF_OUTPUT_ROOT"),
		ProfileRuns:   viper.GetInt("PROFILE_RUNS"),
		Workers:       viper.GetInt("WORKERS"),
	}
}

func (c Config) validate(v *validator.Validate) (Config, error) {
	if err := v.Struct(c); err != nil {
		return c, util.WrapErrorf(err, util.ErrBadParamInput, "invalid evaluator config")
	}
	c.EID = strings.ToLower(c.EID)
	return c, nil
}
