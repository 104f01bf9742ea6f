package contact_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sitekit/internal/contact"
	"sitekit/pkg/serrors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req
}

func TestParseFields_JSON(t *testing.T) {
	body := `{"name":"Ada","age":42,"subscribe":true,"nested":{"a":1},"list":[1,2],"gone":null,"email":"a@b.co"}`

	fields, err := contact.ParseFields(request("application/json; charset=utf-8", body))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":      "Ada",
		"age":       "42",
		"subscribe": "true",
		"email":     "a@b.co",
	}, fields)
}

func TestParseFields_InvalidJSON(t *testing.T) {
	for _, body := range []string{``, `[]`, `"text"`, `{"name":`, `{"name":"Ada"`, `not json`} {
		t.Run(body, func(t *testing.T) {
			_, err := contact.ParseFields(request("application/json", body))
			require.ErrorIs(t, err, serrors.ErrValidation)
			assert.Equal(t, contact.MsgInvalidBody, serrors.PublicMessage(err, ""))
		})
	}
}

func TestParseFields_URLEncoded(t *testing.T) {
	form := url.Values{"name": {"Ada", "ignored"}, "message": {"hi there"}}

	fields, err := contact.ParseFields(request("application/x-www-form-urlencoded", form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, "Ada", fields["name"], "first value wins")
	assert.Equal(t, "hi there", fields["message"])
}

func TestParseFields_Unsupported(t *testing.T) {
	for _, ct := range []string{"", "text/plain", "application/xml"} {
		_, err := contact.ParseFields(request(ct, "name=Ada"))
		require.ErrorIs(t, err, serrors.ErrUnsupported, ct)
		assert.Equal(t, contact.MsgUnsupportedType, serrors.PublicMessage(err, ""))
	}
}

func TestParseFields_MultipartWithoutBoundary(t *testing.T) {
	_, err := contact.ParseFields(request("multipart/form-data", "name=Ada"))
	require.ErrorIs(t, err, serrors.ErrValidation)
}
