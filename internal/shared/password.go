package shared

import (
	"fmt"
	"unicode"
)

// ValidatePasswordFormat enforces the account password policy: at least six
// characters with an uppercase letter, a lowercase letter, a digit and a
// special character. Client and server apply the same rule; the client checks
// first so rejection is local and immediate.
func ValidatePasswordFormat(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: must be at least 6 characters", ErrorInvalidPasswordFormat)
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return fmt.Errorf("%w: must contain upper and lower case letters, a digit and a special character", ErrorInvalidPasswordFormat)
	}
	return nil
}
