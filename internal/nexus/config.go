package nexus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError represents domain-specific configuration errors
type ConfigError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e ConfigError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field: %s)", msg, e.Field)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound  = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
)

// Validator handles configuration validation
type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker performs security validation on configuration
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

// LoaderOptions contains configuration for the loader
type LoaderOptions struct {
	DefaultFileName string
	FileName        string
	OnlyEnvironment bool
	Validator       Validator
	SecurityChecker SecurityChecker
	Timeout         time.Duration
}

// Loader reads environment variables, then optionally a file merged on top, then validates.
type Loader struct {
	options LoaderOptions
}

// LoaderOption is a functional option for configuring the loader
type LoaderOption func(*LoaderOptions)

// WithDefaultFileName sets the file read when present and no explicit file is given.
func WithDefaultFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.DefaultFileName = fileName
	}
}

// WithFileName sets a specific configuration file name. A missing file is an error.
func WithFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileName = fileName
	}
}

// WithOnlyEnvironment configures loader to only read from environment
func WithOnlyEnvironment() LoaderOption {
	return func(o *LoaderOptions) {
		o.OnlyEnvironment = true
		o.FileName = ""
	}
}

// WithValidator sets a custom validator
func WithValidator(v Validator) LoaderOption {
	return func(o *LoaderOptions) {
		o.Validator = v
	}
}

// WithSecurityChecker sets a custom security checker. Nil disables the check.
func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *LoaderOptions) {
		o.SecurityChecker = sc
	}
}

// WithTimeout sets the timeout for loading operations
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.Timeout = timeout
	}
}

// NewLoader creates a new configuration loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	options := LoaderOptions{
		DefaultFileName: ".env",
		Validator:       NewDefaultValidator(),
		SecurityChecker: &DefaultSecurityChecker{},
		Timeout:         30 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Loader{options: options}
}

// Load loads configuration from all configured sources
func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext loads configuration with context support
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	if l.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.Timeout)
		defer cancel()
	}

	if err := validateInputType(cfg); err != nil {
		return err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
	}

	if !l.options.OnlyEnvironment {
		if fileName := l.resolveFileName(); fileName != "" {
			if err := loadFromFile(cfg, fileName); err != nil {
				return err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if l.options.SecurityChecker != nil {
		if err := l.options.SecurityChecker.CheckSecurity(ctx, cfg); err != nil {
			return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
		}
	}

	if l.options.Validator != nil {
		if err := l.options.Validator.Validate(ctx, cfg); err != nil {
			ce := &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				ce.Field = verrs[0].Namespace()
			}
			return ce
		}
	}

	return nil
}

func validateInputType(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}
	return nil
}

// loadFromFile reads the file into a fresh copy and merges its non-zero values over cfg.
func loadFromFile(cfg interface{}, fileName string) error {
	fileCfg := reflect.New(reflect.ValueOf(cfg).Elem().Type()).Interface()

	if err := cleanenv.ReadConfig(fileName, fileCfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeFileNotFound,
			Message: fmt.Sprintf("failed to read configuration file: %s", fileName),
			Cause:   err,
		}
	}

	if err := mergo.MergeWithOverwrite(cfg, fileCfg); err != nil {
		return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge configuration sources", Cause: err}
	}

	return nil
}

func (l *Loader) resolveFileName() string {
	if l.options.FileName != "" {
		return l.options.FileName
	}
	if l.options.DefaultFileName == "" {
		return ""
	}
	if _, err := os.Stat(l.options.DefaultFileName); err == nil {
		return l.options.DefaultFileName
	}
	return ""
}

// DefaultValidator implements basic validation using go-playground/validator
type DefaultValidator struct {
	validator *validator.Validate
}

func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{validator: validator.New()}
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New()
	}
	return v.validator.Struct(cfg)
}

// DefaultSecurityChecker rejects weak values in string fields tagged `sensitive:"true"`,
// descending into nested structs.
type DefaultSecurityChecker struct{}

var weakSecretPatterns = []string{"password", "123456", "changeme", "secret"}

func (sc *DefaultSecurityChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return checkSensitive(reflect.ValueOf(cfg).Elem(), "")
}

func checkSensitive(val reflect.Value, path string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if path != "" {
			name = path + "." + sf.Name
		}

		switch field.Kind() {
		case reflect.Struct:
			if err := checkSensitive(field, name); err != nil {
				return err
			}
		case reflect.String:
			if sf.Tag.Get("sensitive") == "true" && isWeakSecret(field.String()) {
				return fmt.Errorf("sensitive field %s appears to contain a weak or placeholder value", name)
			}
		}
	}
	return nil
}

func isWeakSecret(value string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
