// Package validation holds the pure field checks used by the account
// workflow. None of them touch storage and all are total over strings.
package validation

import (
	"strings"
	"unicode"
)

// DefaultDisallowed is the character blacklist applied to usernames and
// passwords unless configured otherwise.
const DefaultDisallowed = " `!@#$%^&*()_+-=[]{};':\"\\|,.<>/?~"

// ContainsWhitespace reports whether field has at least one whitespace
// character, Unicode spaces included.
func ContainsWhitespace(field string) bool {
	return strings.IndexFunc(field, unicode.IsSpace) >= 0
}

// PasswordsMatch reports whether the password and its confirmation are identical.
func PasswordsMatch(password, confirmation string) bool {
	return password == confirmation
}

// CharacterRule rejects values containing any of its disallowed characters.
// The zero value allows everything.
type CharacterRule struct {
	disallowed string
}

// NewCharacterRule returns a rule that rejects every rune of disallowed.
func NewCharacterRule(disallowed string) CharacterRule {
	return CharacterRule{disallowed: disallowed}
}

// ContainsDisallowed reports whether value contains a blacklisted character.
func (r CharacterRule) ContainsDisallowed(value string) bool {
	return r.disallowed != "" && strings.ContainsAny(value, r.disallowed)
}

// Rules groups the per-field rules used by the workflow. Usernames and
// passwords are checked against separate blacklists.
type Rules struct {
	Username CharacterRule
	Password CharacterRule
}

// DefaultRules applies DefaultDisallowed to both fields.
func DefaultRules() Rules {
	return Rules{
		Username: NewCharacterRule(DefaultDisallowed),
		Password: NewCharacterRule(DefaultDisallowed),
	}
}
