package contact

import (
	"io"
	"mime"
	"net/http"
	"sitekit/pkg/serrors"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const (
	MsgUnsupportedType = "Unsupported content type."
	MsgInvalidBody     = "Invalid request body."
)

// multipartMemory bounds in-memory multipart parsing; the body itself is
// already capped by http.MaxBytesReader.
const multipartMemory = 1 << 20

// ParseFields decodes the request body into string key/value pairs.
// JSON objects, URL-encoded forms and multipart forms are accepted; any
// other content type yields ErrUnsupported.
func ParseFields(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrValidation, err, MsgInvalidBody)
		}
		fields, err := decodeJSONFields(b)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrValidation, err, MsgInvalidBody)
		}

		return fields, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, serrors.Wrap(serrors.ErrValidation, err, MsgInvalidBody)
		}
		fields := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}

		return fields, nil
	default:
		return nil, serrors.With(serrors.ErrUnsupported, MsgUnsupportedType)
	}
}

// decodeJSONFields reads a JSON object. String values are kept as-is,
// numbers and booleans are kept in their literal form, and nested values or
// nulls are dropped.
func decodeJSONFields(b []byte) (map[string]string, error) {
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return nil, errors.New("body is not a JSON object")
	}

	fields := map[string]string{}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch d.Next() {
		case jx.String:
			v, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "field %q", key)
			}
			fields[string(key)] = v
		case jx.Number, jx.Bool:
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrapf(err, "field %q", key)
			}
			fields[string(key)] = strings.TrimSpace(raw.String())
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode object")
	}

	return fields, nil
}
