package contact

import (
	"regexp"
	"sitekit/pkg/domain"
	"sitekit/pkg/serrors"
	"unicode/utf8"
)

// Field limits, counted in characters.
const (
	MinMessageLen = 10
	MaxMessageLen = 2000
	MaxNameLen    = 100
	MaxPhoneLen   = 30
)

// Validation messages returned to the visitor. Exactly one is reported per
// request: the first rule that fails.
const (
	MsgRequiredFields  = "Please fill all required fields."
	MsgInvalidEmail    = "Please enter a valid email."
	MsgMessageTooShort = "Message is too short. Please add more details."
	MsgMessageTooLong  = "Message is too long. Please shorten it."
	MsgNameTooLong     = "Name is too long."
	MsgPhoneInvalid    = "Phone number is invalid."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail applies the basic address shape check: a local part, an @,
// and a domain containing a dot.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks m, which must already be trimmed, and returns an
// ErrValidation error for the first violated rule.
func Validate(m domain.ContactMessage) error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return serrors.With(serrors.ErrValidation, MsgRequiredFields)
	}
	if !IsValidEmail(m.Email) {
		return serrors.With(serrors.ErrValidation, MsgInvalidEmail)
	}

	msgLen := utf8.RuneCountInString(m.Message)
	switch {
	case msgLen < MinMessageLen:
		return serrors.With(serrors.ErrValidation, MsgMessageTooShort)
	case msgLen > MaxMessageLen:
		return serrors.With(serrors.ErrValidation, MsgMessageTooLong)
	case utf8.RuneCountInString(m.Name) > MaxNameLen:
		return serrors.With(serrors.ErrValidation, MsgNameTooLong)
	case m.Phone != "" && utf8.RuneCountInString(m.Phone) > MaxPhoneLen:
		return serrors.With(serrors.ErrValidation, MsgPhoneInvalid)
	}

	return nil
}
