// Package payload encodes navigation and admin intents into the short
// strings carried by inline buttons.
//
// Wire format: fields joined by '|', first field is the discriminator.
// Inside a field '\' is written as '\\' and '|' as '\|', so subject and
// title text may contain the delimiter.
package payload

import (
	"fmt"
	"lecturebot/internal/models"
	"strings"
)

type Kind string

const (
	KindSubject  Kind = "subject"
	KindTypeMenu Kind = "type_menu"
	KindLecture  Kind = "lecture"
	KindQuiz     Kind = "quiz"
	KindBack     Kind = "back"
	KindAdmin    Kind = "admin"
)

const (
	delimiter = '|'
	escape    = '\\'
)

// Payload is the closed set of button intents.
type Payload interface {
	Kind() Kind
	fields() []string
}

type Subject struct {
	Subject string
}

type TypeMenu struct {
	Subject string
	Type    models.ContentType
}

type Lecture struct {
	Subject string
	Type    models.ContentType
	Title   string
}

type Quiz struct {
	Subject string
	Type    models.ContentType
	Title   string
}

type Back struct{}

type Admin struct {
	Action Action
	Args   []string
}

func (Subject) Kind() Kind  { return KindSubject }
func (TypeMenu) Kind() Kind { return KindTypeMenu }
func (Lecture) Kind() Kind  { return KindLecture }
func (Quiz) Kind() Kind     { return KindQuiz }
func (Back) Kind() Kind     { return KindBack }
func (Admin) Kind() Kind    { return KindAdmin }

func (p Subject) fields() []string  { return []string{p.Subject} }
func (p TypeMenu) fields() []string { return []string{p.Subject, string(p.Type)} }
func (p Lecture) fields() []string  { return []string{p.Subject, string(p.Type), p.Title} }
func (p Quiz) fields() []string     { return []string{p.Subject, string(p.Type), p.Title} }
func (Back) fields() []string       { return nil }
func (p Admin) fields() []string    { return append([]string{string(p.Action)}, p.Args...) }

// Encode renders p in wire format.
func Encode(p Payload) string {
	var b strings.Builder
	b.WriteString(string(p.Kind()))
	for _, f := range p.fields() {
		b.WriteRune(delimiter)
		writeEscaped(&b, f)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, field string) {
	for _, r := range field {
		if r == delimiter || r == escape {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
}

// split breaks data on unescaped delimiters and unescapes each field.
func split(data string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range data {
		switch {
		case escaped:
			if r != delimiter && r != escape {
				return nil, fmt.Errorf("invalid escape %q: %w", r, models.ErrMalformedPayload)
			}
			current.WriteRune(r)
			escaped = false
		case r == escape:
			escaped = true
		case r == delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("dangling escape: %w", models.ErrMalformedPayload)
	}
	return append(fields, current.String()), nil
}

// Decode parses a wire payload. Unknown discriminators, wrong field
// counts, unknown content types and empty names fail with
// models.ErrMalformedPayload.
func Decode(data string) (Payload, error) {
	if data == "" {
		return nil, fmt.Errorf("empty payload: %w", models.ErrMalformedPayload)
	}
	fields, err := split(data)
	if err != nil {
		return nil, err
	}
	kind, args := Kind(fields[0]), fields[1:]

	switch kind {
	case KindBack:
		if err := arity(kind, args, 0); err != nil {
			return nil, err
		}
		return Back{}, nil
	case KindSubject:
		if err := arity(kind, args, 1); err != nil {
			return nil, err
		}
		if err := nonEmpty(kind, args[0]); err != nil {
			return nil, err
		}
		return Subject{Subject: args[0]}, nil
	case KindTypeMenu:
		if err := arity(kind, args, 2); err != nil {
			return nil, err
		}
		subject, ct, err := subjectAndType(kind, args)
		if err != nil {
			return nil, err
		}
		return TypeMenu{Subject: subject, Type: ct}, nil
	case KindLecture, KindQuiz:
		if err := arity(kind, args, 3); err != nil {
			return nil, err
		}
		subject, ct, err := subjectAndType(kind, args)
		if err != nil {
			return nil, err
		}
		if err := nonEmpty(kind, args[2]); err != nil {
			return nil, err
		}
		if kind == KindQuiz {
			return Quiz{Subject: subject, Type: ct, Title: args[2]}, nil
		}
		return Lecture{Subject: subject, Type: ct, Title: args[2]}, nil
	case KindAdmin:
		return decodeAdmin(args)
	}
	return nil, fmt.Errorf("unknown discriminator %q: %w", kind, models.ErrMalformedPayload)
}

func arity(kind Kind, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s expects %d fields, got %d: %w", kind, want, len(args), models.ErrMalformedPayload)
	}
	return nil
}

func nonEmpty(kind Kind, field string) error {
	if field == "" {
		return fmt.Errorf("%s has an empty field: %w", kind, models.ErrMalformedPayload)
	}
	return nil
}

func subjectAndType(kind Kind, args []string) (string, models.ContentType, error) {
	if err := nonEmpty(kind, args[0]); err != nil {
		return "", "", err
	}
	ct, err := models.ParseContentType(args[1])
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", kind, models.ErrMalformedPayload)
	}
	return args[0], ct, nil
}
