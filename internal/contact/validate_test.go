package contact_test

import (
	"sitekit/internal/contact"
	"sitekit/pkg/domain"
	"sitekit/pkg/serrors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validMessage() domain.ContactMessage {
	return domain.ContactMessage{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "+44 20 7946 0958",
		Service: "Consulting",
		Message: "hello world!",
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *domain.ContactMessage)
		want   string
	}{
		{name: "valid", mutate: func(m *domain.ContactMessage) {}},
		{name: "missing name", mutate: func(m *domain.ContactMessage) { m.Name = "" }, want: contact.MsgRequiredFields},
		{name: "missing email", mutate: func(m *domain.ContactMessage) { m.Email = "" }, want: contact.MsgRequiredFields},
		{name: "missing message", mutate: func(m *domain.ContactMessage) { m.Message = "" }, want: contact.MsgRequiredFields},
		{name: "bad email", mutate: func(m *domain.ContactMessage) { m.Email = "not-an-email" }, want: contact.MsgInvalidEmail},
		{name: "email without dot", mutate: func(m *domain.ContactMessage) { m.Email = "a@localhost" }, want: contact.MsgInvalidEmail},
		{name: "message 9 chars", mutate: func(m *domain.ContactMessage) { m.Message = "123456789" }, want: contact.MsgMessageTooShort},
		{name: "message 10 chars", mutate: func(m *domain.ContactMessage) { m.Message = "1234567890" }},
		{name: "message 2000 chars", mutate: func(m *domain.ContactMessage) { m.Message = strings.Repeat("x", 2000) }},
		{name: "message 2001 chars", mutate: func(m *domain.ContactMessage) { m.Message = strings.Repeat("x", 2001) }, want: contact.MsgMessageTooLong},
		{name: "multibyte counted as chars", mutate: func(m *domain.ContactMessage) { m.Message = strings.Repeat("é", 2000) }},
		{name: "name 101 chars", mutate: func(m *domain.ContactMessage) { m.Name = strings.Repeat("n", 101) }, want: contact.MsgNameTooLong},
		{name: "phone 31 chars", mutate: func(m *domain.ContactMessage) { m.Phone = strings.Repeat("1", 31) }, want: contact.MsgPhoneInvalid},
		{name: "phone empty", mutate: func(m *domain.ContactMessage) { m.Phone = "" }},
		{
			name: "first failing rule wins",
			mutate: func(m *domain.ContactMessage) {
				m.Message = "short"
				m.Name = strings.Repeat("n", 101)
			},
			want: contact.MsgMessageTooShort,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMessage()
			tc.mutate(&m)

			err := contact.Validate(m)
			if tc.want == "" {
				require.NoError(t, err)

				return
			}
			require.ErrorIs(t, err, serrors.ErrValidation)
			require.Equal(t, tc.want, err.Error())
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, contact.IsValidEmail("a@b.com"))
	require.True(t, contact.IsValidEmail("first.last+tag@sub.example.co"))
	require.False(t, contact.IsValidEmail("a b@c.com"))
	require.False(t, contact.IsValidEmail("@b.com"))
	require.False(t, contact.IsValidEmail("a@@b.com"))
}
