package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// fieldSelector matches the named controls that take part in submission.
const fieldSelector = "input[name], textarea[name], select[name]"

// Field is one serialized form entry.
type Field struct {
	Name  string
	Value string
}

// skippedInputTypes never contribute a value.
var skippedInputTypes = map[string]bool{ //nolint: gochecknoglobals
	"submit": true, "button": true, "reset": true, "image": true, "file": true,
}

func inputType(s *goquery.Selection) string {
	return strings.ToLower(s.AttrOr("type", "text"))
}

// FormFields serializes form the way FormData does: named, enabled controls
// in document order; checkboxes and radios only when checked.
func FormFields(form *goquery.Selection) []Field {
	var fields []Field
	form.Find(fieldSelector).Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		name := s.AttrOr("name", "")

		switch goquery.NodeName(s) {
		case "textarea":
			fields = append(fields, Field{Name: name, Value: s.Text()})
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			if opt.Length() > 0 {
				fields = append(fields, Field{Name: name, Value: optionValue(opt)})
			}
		default:
			t := inputType(s)
			if skippedInputTypes[t] {
				return
			}
			if t == "checkbox" || t == "radio" {
				if _, checked := s.Attr("checked"); !checked {
					return
				}
				fields = append(fields, Field{Name: name, Value: s.AttrOr("value", "on")})

				return
			}
			fields = append(fields, Field{Name: name, Value: s.AttrOr("value", "")})
		}
	})

	return fields
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}

	return strings.TrimSpace(opt.Text())
}

// SetFieldValue sets the live value of the first control named name, the
// way a visitor typing into it would. For selects, value picks the option;
// for checkboxes, a non-empty value checks the box. It reports whether a
// control was found.
func SetFieldValue(form *goquery.Selection, name, value string) bool {
	found := false
	form.Find(fieldSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("name", "") != name {
			return true
		}
		found = true

		switch goquery.NodeName(s) {
		case "textarea":
			s.SetText(value)
		case "select":
			s.Find("option").Each(func(_ int, opt *goquery.Selection) {
				if optionValue(opt) == value {
					opt.SetAttr("selected", "")
				} else {
					opt.RemoveAttr("selected")
				}
			})
		default:
			switch inputType(s) {
			case "checkbox", "radio":
				if value != "" {
					s.SetAttr("checked", "")
				} else {
					s.RemoveAttr("checked")
				}
			default:
				s.SetAttr("value", value)
			}
		}

		return false
	})

	return found
}

// FormSnapshot holds the initial state of a form's controls so it can be
// reset after a successful submission.
type FormSnapshot struct {
	nodes []nodeState
}

type nodeState struct {
	node *html.Node
	attr []html.Attribute
	text string
	isTA bool
}

// SnapshotForm records the current attributes of every control in form,
// plus option elements and textarea contents.
func SnapshotForm(form *goquery.Selection) FormSnapshot {
	var snap FormSnapshot
	form.Find(fieldSelector + ", option").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		st := nodeState{node: n, attr: append([]html.Attribute(nil), n.Attr...)}
		if goquery.NodeName(s) == "textarea" {
			st.isTA = true
			st.text = s.Text()
		}
		snap.nodes = append(snap.nodes, st)
	})

	return snap
}

// Restore puts every recorded control back to its snapshotted state.
func (f FormSnapshot) Restore() {
	for _, st := range f.nodes {
		st.node.Attr = append([]html.Attribute(nil), st.attr...)
		if st.isTA {
			goquery.NewDocumentFromNode(st.node).Selection.SetText(st.text)
		}
	}
}
