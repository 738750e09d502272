package clean

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

const (
	DefaultStrategy        = "mean"
	DefaultOutlierFactor   = 1.5
	DefaultNormalizeMethod = "standard"
	DefaultKeep            = "first"
)

var ErrInvalidConfig = fmt.Errorf("%w: invalid cleaning config", dl.ErrConfiguration)

// Conversion is one entry of the ordered type map.
type Conversion struct {
	Column string `json:"column" yaml:"column" toml:"column" validate:"required"`
	Type   string `json:"type" yaml:"type" toml:"type" validate:"required"`
}

// Config selects the cleaning steps Apply runs. Empty column lists skip their
// step. MissingColumns nil means every column holding a missing value, and
// DuplicateSubset nil means all columns.
type Config struct {
	Strategy       string   `json:"strategy" yaml:"strategy" toml:"strategy" validate:"oneof=mean median mode constant drop"`
	MissingColumns []string `json:"missing_columns,omitempty" yaml:"missing_columns" toml:"missing_columns"`
	FillValue      any      `json:"fill_value,omitempty" yaml:"fill_value" toml:"fill_value"`

	OutlierColumns []string `json:"outlier_columns,omitempty" yaml:"outlier_columns" toml:"outlier_columns"`
	// OutlierFactor 0 means DefaultOutlierFactor; negative values are rejected.
	OutlierFactor  float64  `json:"outlier_factor" yaml:"outlier_factor" toml:"outlier_factor" validate:"gte=0"`

	NormalizeColumns []string `json:"normalize_columns,omitempty" yaml:"normalize_columns" toml:"normalize_columns"`
	NormalizeMethod  string   `json:"normalize_method" yaml:"normalize_method" toml:"normalize_method" validate:"oneof=standard minmax"`

	Convert []Conversion `json:"convert,omitempty" yaml:"convert" toml:"convert" validate:"dive"`

	DuplicateSubset []string `json:"duplicate_subset,omitempty" yaml:"duplicate_subset" toml:"duplicate_subset"`
	DuplicateKeep   string   `json:"duplicate_keep" yaml:"duplicate_keep" toml:"duplicate_keep" validate:"oneof=first last none"`

	TextColumns       []string `json:"text_columns,omitempty" yaml:"text_columns" toml:"text_columns"`
	TextLower         bool     `json:"text_lower" yaml:"text_lower" toml:"text_lower"`
	TextStrip         bool     `json:"text_strip" yaml:"text_strip" toml:"text_strip"`
	TextRemoveSpecial bool     `json:"text_remove_special" yaml:"text_remove_special" toml:"text_remove_special"`

	// Recode maps column -> old value -> new value, applied last.
	Recode map[string]map[string]string `json:"recode,omitempty" yaml:"recode" toml:"recode"`
}

func DefaultConfig() Config {
	return Config{
		Strategy:          DefaultStrategy,
		OutlierFactor:     DefaultOutlierFactor,
		NormalizeMethod:   DefaultNormalizeMethod,
		DuplicateKeep:     DefaultKeep,
		TextLower:         true,
		TextStrip:         true,
		TextRemoveSpecial: true,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their config key
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate rejects unknown option names and out-of-range values. Every
// failure wraps ErrInvalidConfig.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.Strategy == "constant" && c.FillValue == nil {
			return fmt.Errorf("%w: fill_value is required with strategy constant", ErrInvalidConfig)
		}
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
