package domain

import "strings"

// ContactMessage is a single contact form submission. It is built per
// request, never persisted, and discarded once the email call returns.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message"`
	// Company is the hidden honeypot field. Real visitors never see it.
	Company string `json:"company,omitempty"`
}

// ContactMessageFromFields builds a message from raw key/value form fields,
// trimming surrounding whitespace from every value.
func ContactMessageFromFields(fields map[string]string) ContactMessage {
	get := func(k string) string { return strings.TrimSpace(fields[k]) }

	return ContactMessage{
		Name:    get("name"),
		Email:   get("email"),
		Phone:   get("phone"),
		Service: get("service"),
		Message: get("message"),
		Company: get("company"),
	}
}

// IsBot reports whether the honeypot field was filled in.
func (m ContactMessage) IsBot() bool {
	return m.Company != ""
}
