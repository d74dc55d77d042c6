package setrecord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	minCodeLength = 2
	maxCodeLength = 8
)

var releaseDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldError describes a single failing field in a payload.
type FieldError struct {
	Path   string
	Reason string
}

// ValidationError enumerates every failing field of a payload, never just the
// first one, so a single log line can carry the complete diagnostic.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Path, f.Reason))
	}
	return fmt.Sprintf("record validation failed: %s", strings.Join(parts, "; "))
}

// Validate checks an untyped JSON payload against the fixed set-record schema
// and constructs the one typed Record the rest of the system operates on. It
// is strict: unknown top-level fields are rejected so upstream schema drift
// surfaces immediately instead of being silently ignored. Validate performs no
// I/O and never returns a partial Record.
func Validate(payload []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Path: "$", Reason: "body is not a JSON object"}}}
	}

	v := &validator{raw: raw}

	rec := &Record{
		ID:          v.uuidField("id"),
		Code:        v.boundedString("code", minCodeLength, maxCodeLength),
		Name:        v.nonEmptyString("name"),
		SetType:     v.nonEmptyString("set_type"),
		CardCount:   v.nonNegativeInt("card_count"),
		ReleasedAt:  v.releaseDate("released_at"),
		Digital:     v.boolField("digital"),
		FoilOnly:    v.boolField("foil_only"),
		NonfoilOnly: v.boolField("nonfoil_only"),
		URI:         v.absoluteURL("uri"),
		ScryfallURI: v.absoluteURL("scryfall_uri"),
		IconSVGURI:  v.absoluteURL("icon_svg_uri"),
	}

	v.rejectUnknownFields()

	if len(v.errs) > 0 {
		sort.Slice(v.errs, func(i, j int) bool { return v.errs[i].Path < v.errs[j].Path })
		return nil, &ValidationError{Fields: v.errs}
	}
	return rec, nil
}

// validator accumulates field errors while walking the decoded payload.
type validator struct {
	raw  map[string]any
	seen []string
	errs []FieldError
}

func (v *validator) fail(path, reason string) {
	v.errs = append(v.errs, FieldError{Path: path, Reason: reason})
}

func (v *validator) lookup(name string) (any, bool) {
	v.seen = append(v.seen, name)
	value, ok := v.raw[name]
	if !ok {
		v.fail(name, "missing required field")
	}
	return value, ok
}

func (v *validator) stringField(name string) (string, bool) {
	value, ok := v.lookup(name)
	if !ok {
		return "", false
	}
	s, isString := value.(string)
	if !isString {
		v.fail(name, "must be a string")
		return "", false
	}
	return s, true
}

func (v *validator) nonEmptyString(name string) string {
	s, ok := v.stringField(name)
	if !ok {
		return ""
	}
	if strings.TrimSpace(s) == "" {
		v.fail(name, "must be a non-empty string")
		return ""
	}
	return s
}

func (v *validator) boundedString(name string, min, max int) string {
	s, ok := v.stringField(name)
	if !ok {
		return ""
	}
	if len(s) < min || len(s) > max {
		v.fail(name, fmt.Sprintf("length must be between %d and %d characters", min, max))
		return ""
	}
	return s
}

func (v *validator) uuidField(name string) string {
	s, ok := v.stringField(name)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(s); err != nil {
		v.fail(name, "must be a UUID")
		return ""
	}
	return s
}

func (v *validator) releaseDate(name string) string {
	s, ok := v.stringField(name)
	if !ok {
		return ""
	}
	if !releaseDatePattern.MatchString(s) {
		v.fail(name, "must match YYYY-MM-DD")
		return ""
	}
	return s
}

func (v *validator) nonNegativeInt(name string) int {
	value, ok := v.lookup(name)
	if !ok {
		return 0
	}
	num, isNumber := value.(json.Number)
	if !isNumber {
		v.fail(name, "must be an integer")
		return 0
	}
	n, err := num.Int64()
	if err != nil {
		v.fail(name, "must be an integer")
		return 0
	}
	if n < 0 {
		v.fail(name, "must be non-negative")
		return 0
	}
	return int(n)
}

func (v *validator) boolField(name string) bool {
	value, ok := v.lookup(name)
	if !ok {
		return false
	}
	b, isBool := value.(bool)
	if !isBool {
		v.fail(name, "must be a boolean")
		return false
	}
	return b
}

func (v *validator) absoluteURL(name string) string {
	s, ok := v.stringField(name)
	if !ok {
		return ""
	}
	parsed, err := url.ParseRequestURI(s)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		v.fail(name, "must be an absolute URL")
		return ""
	}
	return s
}

func (v *validator) rejectUnknownFields() {
	known := make(map[string]struct{}, len(v.seen))
	for _, name := range v.seen {
		known[name] = struct{}{}
	}
	for name := range v.raw {
		if _, ok := known[name]; !ok {
			v.fail(name, "unknown field")
		}
	}
}
