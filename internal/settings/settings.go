// Package settings holds the per-run configuration of the chapter checker.
//
// A Settings value is built once at start-up and passed explicitly to every
// rule and to the pipeline entry point; it is never mutated during a run.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Language selects the orthographic conventions the rules apply.
type Language string

const (
	EN Language = "EN"
	DE Language = "DE"
)

// Configuration keys, shared by config files, environment variables and
// command flags.
const (
	KeyLanguage     = "language"
	KeyInlineFixing = "inline_fixing"
	KeyPrintDiff    = "print_diff"
	KeyRaiseError   = "raise_error"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. CHAPFIX_LANGUAGE.
const EnvPrefix = "CHAPFIX"

type Settings struct {
	Language Language `mapstructure:"language" json:"language" validate:"required,oneof=EN DE"`
	// InlineFixing overwrites chapter files in place instead of writing
	// -autofix proposals. Use with caution.
	InlineFixing bool `mapstructure:"inline_fixing" json:"inline_fixing"`
	PrintDiff    bool `mapstructure:"print_diff" json:"print_diff"`
	RaiseError   bool `mapstructure:"raise_error" json:"raise_error"`
}

// Default returns the settings used when nothing else is configured.
func Default() Settings {
	return Settings{
		Language:   EN,
		PrintDiff:  true,
		RaiseError: true,
	}
}

var validate = validator.New()

// Validate checks that the settings hold a supported language.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid setting %s=%q: must be one of EN, DE", strings.ToLower(verrs[0].Field()), s.Language)
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ParseLanguage accepts a language code in any case.
func ParseLanguage(code string) (Language, error) {
	lang := Language(strings.ToUpper(strings.TrimSpace(code)))
	switch lang {
	case EN, DE:
		return lang, nil
	}
	return "", fmt.Errorf("unsupported language %q (want EN or DE)", code)
}

// SetDefaults registers the default values on v so that environment
// variables are picked up by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyLanguage, string(d.Language))
	v.SetDefault(KeyInlineFixing, d.InlineFixing)
	v.SetDefault(KeyPrintDiff, d.PrintDiff)
	v.SetDefault(KeyRaiseError, d.RaiseError)
}

// Load reads settings from v, normalises the language code and validates
// the result.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	lang, err := ParseLanguage(string(s.Language))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid setting %s: %w", KeyLanguage, err)
	}
	s.Language = lang

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// NewViper returns a viper instance wired for chapfix: optional config file
// (explicit path or chapfix.yaml in the working directory) and CHAPFIX_*
// environment variables.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("chapfix")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}
