package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange rejects ports outside 1-65535. Port 0 ("any free port")
// is handled by the callers that allow it, never here.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString reports an empty value as "<fieldName> cannot be
// empty" instead of the raw validator message.
func ValidateRequiredString(value, fieldName string) error {
	if ValidateField(value, "required") != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateOneOf checks value against a fixed set of choices.
func ValidateOneOf(value, fieldName string, choices ...string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (valid: %v)", fieldName, value, choices)
}

// ValidatePositiveTimeout rejects zero and negative durations.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, timeout)
	}
	return nil
}
