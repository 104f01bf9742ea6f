package dom_test

import (
	"sitekit/internal/dom"
	"testing"

	"github.com/stretchr/testify/require"
)

const formMarkup = `<form data-contact-form>
  <input name="name" value="">
  <input name="email" type="email">
  <input name="company" type="text" class="hidden" value="">
  <input name="terms" type="checkbox">
  <input name="locked" value="x" disabled>
  <select name="service">
    <option value="">Choose</option>
    <option value="web">Web</option>
    <option>SEO</option>
  </select>
  <textarea name="message">default text</textarea>
  <button type="submit">Send Message</button>
</form>`

func formPage(t *testing.T) *dom.Page {
	t.Helper()
	p, err := dom.ParseString(formMarkup, "https://example.com/contact")
	require.NoError(t, err)

	return p
}

func TestFormFields_SerializesLikeFormData(t *testing.T) {
	form := formPage(t).QueryAll("form")

	require.Equal(t, []dom.Field{
		{Name: "name", Value: ""},
		{Name: "email", Value: ""},
		{Name: "company", Value: ""},
		{Name: "service", Value: ""},
		{Name: "message", Value: "default text"},
	}, dom.FormFields(form))
}

func TestSetFieldValue(t *testing.T) {
	form := formPage(t).QueryAll("form")

	require.True(t, dom.SetFieldValue(form, "name", "Ada"))
	require.True(t, dom.SetFieldValue(form, "terms", "yes"))
	require.True(t, dom.SetFieldValue(form, "service", "SEO"))
	require.True(t, dom.SetFieldValue(form, "message", "hello world!"))
	require.False(t, dom.SetFieldValue(form, "nope", "x"))

	fields := map[string]string{}
	for _, f := range dom.FormFields(form) {
		fields[f.Name] = f.Value
	}
	require.Equal(t, "Ada", fields["name"])
	require.Equal(t, "on", fields["terms"])
	require.Equal(t, "SEO", fields["service"])
	require.Equal(t, "hello world!", fields["message"])
}

func TestFormSnapshot_Restore(t *testing.T) {
	form := formPage(t).QueryAll("form")
	before := dom.FormFields(form)
	snap := dom.SnapshotForm(form)

	dom.SetFieldValue(form, "name", "Ada")
	dom.SetFieldValue(form, "terms", "yes")
	dom.SetFieldValue(form, "service", "web")
	dom.SetFieldValue(form, "message", "typed")
	require.NotEqual(t, before, dom.FormFields(form))

	snap.Restore()
	require.Equal(t, before, dom.FormFields(form))
}
