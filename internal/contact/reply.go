package contact

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Reply is the JSON body of every contact endpoint response.
type Reply struct {
	OK      bool
	Message string
}

// Encode renders r as {"ok":...,"message":...}.
func (r Reply) Encode() []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("ok", func(e *jx.Encoder) { e.Bool(r.OK) })
		e.Field("message", func(e *jx.Encoder) { e.Str(r.Message) })
	})

	return e.Bytes()
}

// DecodeReply parses a response body. Missing fields keep their zero value.
func DecodeReply(b []byte) (Reply, error) {
	var r Reply
	d := jx.DecodeBytes(b)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch {
		case string(key) == "ok" && d.Next() == jx.Bool:
			v, err := d.Bool()
			r.OK = v

			return err
		case string(key) == "message" && d.Next() == jx.String:
			v, err := d.Str()
			r.Message = v

			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return Reply{}, errors.Wrap(err, "decode reply")
	}

	return r, nil
}

func writeReply(w http.ResponseWriter, status int, r Reply) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(r.Encode())
}
