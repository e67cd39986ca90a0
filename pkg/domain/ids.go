// Package domain defines the identifier types shared across modules.
//
// Accounts are opaque addresses issued by the identity oracle's ecosystem.
// Keeping them typed (rather than bare strings) prevents cross-wiring an
// account with other string-shaped values at compile time.
package domain

import (
	"strings"
	"unicode"

	dErrors "medgate/pkg/domain-errors"
)

// Account is the opaque unique identifier for any actor (owner, admin,
// doctor, patient). The zero value means "absent" and is never a valid
// account; profile presence checks rely on that.
type Account string

// maxAccountLen bounds parser input at the trust boundary.
const maxAccountLen = 128

// ParseAccount validates an account identifier received at a trust boundary.
// Accounts must be non-empty, within length bounds, and printable with no
// whitespace so they are safe as map keys, log fields, and URL segments.
func ParseAccount(raw string) (Account, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account must not be empty")
	}
	if len(s) > maxAccountLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account exceeds maximum length")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || !unicode.IsPrint(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "account contains invalid characters")
		}
	}
	return Account(s), nil
}

// String returns the raw identifier.
func (a Account) String() string { return string(a) }

// IsZero reports whether the account is the absent value.
func (a Account) IsZero() bool { return a == "" }

// ReportID identifies a medical report. IDs are positive, 1-based, and
// strictly increasing; zero means "no report".
type ReportID uint64

// IsZero reports whether the id is the absent value.
func (id ReportID) IsZero() bool { return id == 0 }
