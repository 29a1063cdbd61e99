package logger

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var maxFilesPattern = regexp.MustCompile(`^([0-9]+)([a-z])$`)

var retentionUnits = map[string]time.Duration{
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ConfigurationError is returned when a Config fails validation. Nothing
// has been constructed when it is returned.
type ConfigurationError struct {
	Errors ValidationErrors
}

func (e *ConfigurationError) Error() string {
	return "invalid logger configuration: " + e.Errors.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Errors
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("dateformat", func(fl validator.FieldLevel) bool {
			return CheckMomentPattern(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("maxfiles", func(fl validator.FieldLevel) bool {
			_, err := ParseRetention(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate applies defaults to cfg and checks it, returning a
// *ConfigurationError listing every violation.
func Validate(cfg *Config) error {
	cfg.ApplyDefaults()

	err := structValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ConfigurationError{Errors: ValidationErrors{{Field: "config", Message: err.Error()}}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
			Value:   fmt.Sprint(fe.Value()),
			Message: validationMessage(fe),
		})
	}
	return &ConfigurationError{Errors: errs}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "dateformat":
		if err := CheckMomentPattern(fmt.Sprint(fe.Value())); err != nil {
			return "cannot be used as a date layout: " + err.Error()
		}
		return "cannot be used as a date layout"
	case "maxfiles":
		return "must be a number followed by a unit (h, d or w), e.g. 14d"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed the '%s' check", fe.Tag())
	}
}

// ParseRetention converts a maxFiles value such as "14d" into a duration
func ParseRetention(value string) (time.Duration, error) {
	m := maxFilesPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid retention %q: expected a number followed by a unit", value)
	}

	unit, ok := retentionUnits[m[2]]
	if !ok {
		return 0, fmt.Errorf("invalid retention %q: unsupported unit %q", value, m[2])
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid retention %q: %w", value, err)
	}
	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("invalid retention %q: exceeds the longest supported duration %s", value, time.Duration(math.MaxInt64))
	}
	return time.Duration(n) * unit, nil
}
