package module

import (
	"time"

	"github.com/mr-bo-jangles/SqueezySceney/internal/adapters/archive"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/validate"
)

// Options holds configuration options for the rescale service
type Options struct {
	Workers     int           `env:"WORKERS" validate:"min=1,max=64"`
	Rounding    string        `env:"ROUNDING" validate:"oneof=none integers all"`
	Patterns    []string      `env:"PATTERNS" validate:"min=1,glob"`
	KeysFile    string        `env:"KEYS_FILE"`
	SkipInvalid bool          `env:"SKIP_INVALID"`
	SniffAssets bool          `env:"SNIFF_ASSETS"`
	MaxFactor   float64       `env:"MAX_FACTOR" validate:"min=0"`
	RunTimeout  time.Duration `env:"RUN_TIMEOUT" validate:"min=0"`
	DocTimeout  time.Duration `env:"DOC_TIMEOUT" validate:"min=0"`
}

// FromConfig reads the rescale options from config with SCENEY_RESCALE_ prefix
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("SCENEY_RESCALE_")
	return Options{
		Workers:     rc.MayInt("WORKERS", 4),
		Rounding:    rc.MayString("ROUNDING", "none"),
		Patterns:    rc.MayCSV("PATTERNS", []string{archive.DefaultPattern}),
		KeysFile:    rc.MayString("KEYS_FILE", ""),
		SkipInvalid: rc.MayBool("SKIP_INVALID", false),
		SniffAssets: rc.MayBool("SNIFF_ASSETS", true),
		MaxFactor:   rc.MayFloat64("MAX_FACTOR", 0),
		RunTimeout:  rc.MayDuration("RUN_TIMEOUT", 0),
		DocTimeout:  rc.MayDuration("DOC_TIMEOUT", 0),
	}
}

// Validate checks the options and reports the first bad field by its env name
func (o Options) Validate() error { return validate.Struct(o) }
