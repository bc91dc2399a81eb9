package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coolbeans/nomiki/pkg/validate"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if _, err := validate.ParseMode(c.Validator.Mode); err != nil {
		errors = append(errors, ValidationError{
			Field:   "validator.mode",
			Message: err.Error(),
		})
	}

	if c.Updater.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "updater.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Updater.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "updater.timeout",
			Message: "timeout must not be negative",
		})
	}

	for i, src := range c.Updater.Sources {
		if src.Category == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("updater.sources[%d].category", i),
				Message: "category is required",
			})
		}
		if src.Location == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("updater.sources[%d].location", i),
				Message: "location is required",
			})
		}
	}

	for i, p := range c.Inbox.Patterns {
		if !doublestar.ValidatePattern(p) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("inbox.patterns[%d]", i),
				Message: fmt.Sprintf("invalid pattern %q", p),
			})
		}
	}

	if c.Inbox.Debounce < 0 {
		errors = append(errors, ValidationError{
			Field:   "inbox.debounce",
			Message: "debounce must not be negative",
		})
	}

	return errors
}
