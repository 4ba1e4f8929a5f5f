package graphstore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	uidRe       = regexp.MustCompile(`^0x[0-9a-fA-F]{1,16}$`)
	blankRe     = regexp.MustCompile(`^_:[A-Za-z][A-Za-z0-9_]*$`)
	predicateRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// ErrBadNodeRef is returned for node references that are neither a blank
// node label nor a hex UID.
var ErrBadNodeRef = errors.New("malformed node reference")

// nquads builds an RDF N-Quad payload for a set mutation. Node references
// are validated and literals escaped, so user input can never change the
// shape of the mutation. The first error sticks and is returned by Bytes.
type nquads struct {
	b   strings.Builder
	err error
}

func nodeRef(ref string) (string, error) {
	switch {
	case blankRe.MatchString(ref):
		return ref, nil
	case uidRe.MatchString(ref):
		return "<" + ref + ">", nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadNodeRef, ref)
}

// escapeLiteral quotes s as an N-Quad string literal.
func escapeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (q *nquads) line(subject, predicate, object string, literal bool) {
	if q.err != nil {
		return
	}
	s, err := nodeRef(subject)
	if err != nil {
		q.err = err
		return
	}
	if !predicateRe.MatchString(predicate) {
		q.err = fmt.Errorf("malformed predicate %q", predicate)
		return
	}
	var o string
	if literal {
		o = escapeLiteral(object)
	} else if o, err = nodeRef(object); err != nil {
		q.err = err
		return
	}
	fmt.Fprintf(&q.b, "%s <%s> %s .\n", s, predicate, o)
}

// Type sets the node's dgraph.type.
func (q *nquads) Type(subject, typ string) {
	q.line(subject, "dgraph.type", typ, true)
}

// Literal sets a scalar predicate.
func (q *nquads) Literal(subject, predicate, value string) {
	q.line(subject, predicate, value, true)
}

// Edge links subject to object.
func (q *nquads) Edge(subject, predicate, object string) {
	q.line(subject, predicate, object, false)
}

func (q *nquads) Bytes() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return []byte(q.b.String()), nil
}
