package jsonschema

import (
	"fmt"
	"regexp/syntax"
	"sort"
	"strings"
)

const (
	whitespace = `[ \t\n\r]*`
	maxRefDepth = 8
)

var primitiveRegex = map[string]string{
	"null":    `null`,
	"boolean": `(true|false)`,
	"integer": `-?(0|[1-9][0-9]*)`,
	"number":  `-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`,
	"string":  `"([^"\\]|\\.)*"`,
}

// translator carries the root schema (for $ref resolution). The guard
// against cyclic $ref chains is translate's depth argument, bounded by
// maxRefDepth.
type translator struct {
	root Schema
}

// ToRegex translates root into a regex accepted by the dfa/nfa compiler.
func ToRegex(root Schema) (string, error) {
	t := &translator{root: root}
	return t.translate(root, "$", 0)
}

func (t *translator) translate(s Schema, path string, depth int) (string, error) {
	if depth > maxRefDepth {
		return "", &TranslateError{Path: path, Construct: "$ref", Err: fmt.Errorf("exceeded max unrolling depth %d", maxRefDepth)}
	}

	if ref, ok := s.str("$ref"); ok {
		target, err := t.resolveRef(ref, path)
		if err != nil {
			return "", err
		}
		return t.translate(target, path+"/"+ref, depth+1)
	}

	if pattern, ok := s.str("pattern"); ok {
		if err := validatePattern(pattern, path); err != nil {
			return "", err
		}
		return `"` + pattern + `"`, nil
	}

	if enum, ok := s.arr("enum"); ok {
		return t.translateEnum(enum, path)
	}

	typ, ok := s.str("type")
	if !ok {
		return "", &TranslateError{Path: path, Construct: "type", Err: fmt.Errorf("%w: missing type and no $ref/pattern/enum", ErrSchemaUnsupported)}
	}

	switch typ {
	case "null", "boolean", "integer", "number":
		return primitiveRegex[typ], nil
	case "string":
		return primitiveRegex["string"], nil
	case "array":
		return t.translateArray(s, path, depth)
	case "object":
		return t.translateObject(s, path, depth)
	default:
		return "", &TranslateError{Path: path, Construct: "type:" + typ, Err: ErrSchemaUnsupported}
	}
}

func (t *translator) translateEnum(values []any, path string) (string, error) {
	alts := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case string:
			alts = append(alts, `"`+regexEscapeLiteral(val)+`"`)
		case bool:
			alts = append(alts, fmt.Sprintf("%t", val))
		case nil:
			alts = append(alts, "null")
		case float64:
			alts = append(alts, formatEnumNumber(val))
		default:
			return "", &TranslateError{Path: path, Construct: "enum", Err: ErrSchemaUnsupported}
		}
	}
	return "(" + strings.Join(alts, "|") + ")", nil
}

func formatEnumNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func (t *translator) translateArray(s Schema, path string, depth int) (string, error) {
	items, ok := s.obj("items")
	if !ok {
		// An untyped items schema still matches arbitrary JSON arrays of
		// at least zero elements; without an items constraint we can only
		// accept the empty array, which is the safe (non-unsupported)
		// subset rather than rejecting outright.
		return `\[` + whitespace + `\]`, nil
	}
	itemRe, err := t.translate(items, path+"/items", depth)
	if err != nil {
		return "", err
	}
	// zero or more items, comma-separated, with flexible whitespace.
	return `\[` + whitespace + `(` + itemRe + `(` + whitespace + `,` + whitespace + itemRe + `)*)?` + whitespace + `\]`, nil
}

// maxOptionalProperties bounds the subset enumeration in translateObject;
// beyond this the alternation would blow up combinatorially.
const maxOptionalProperties = 6

func (t *translator) translateObject(s Schema, path string, depth int) (string, error) {
	props, hasProps := s.obj("properties")
	if !hasProps {
		return "", &TranslateError{Path: path, Construct: "object without properties", Err: ErrSchemaUnsupported}
	}
	required := map[string]bool{}
	for _, r := range s.strArr("required") {
		required[r] = true
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic key order; see DESIGN.md

	type field struct {
		name string
		re   string
		req  bool
	}
	fields := make([]field, 0, len(names))
	var optionalIdx []int
	for _, name := range names {
		sub, _ := props.obj(name)
		re, err := t.translate(sub, path+"/properties/"+name, depth)
		if err != nil {
			return "", err
		}
		fields = append(fields, field{name: name, re: re, req: required[name]})
		if !required[name] {
			optionalIdx = append(optionalIdx, len(fields)-1)
		}
	}
	if len(optionalIdx) > maxOptionalProperties {
		return "", &TranslateError{Path: path, Construct: "properties", Err: fmt.Errorf("%w: more than %d optional properties", ErrSchemaUnsupported, maxOptionalProperties)}
	}

	pair := func(f field) string {
		return `"` + regexEscapeLiteral(f.name) + `"` + whitespace + `:` + whitespace + f.re
	}

	// Whether a field is present varies independently per optional field, and
	// the comma separator between two consecutive present fields depends on
	// that presence, so every combination of optional fields is enumerated
	// and joined as an alternation rather than guessing a single fixed
	// separator pattern.
	alternatives := make([]string, 0, 1<<uint(len(optionalIdx)))
	for mask := 0; mask < 1<<uint(len(optionalIdx)); mask++ {
		include := make(map[int]bool, len(optionalIdx))
		for bit, idx := range optionalIdx {
			if mask&(1<<uint(bit)) != 0 {
				include[idx] = true
			}
		}
		var pairs []string
		for i, f := range fields {
			if !f.req && !include[i] {
				continue
			}
			pairs = append(pairs, pair(f))
		}
		alternatives = append(alternatives, strings.Join(pairs, whitespace+`,`+whitespace))
	}

	var b strings.Builder
	b.WriteString(`\{` + whitespace)
	if len(alternatives) == 1 {
		b.WriteString(alternatives[0])
	} else {
		b.WriteString("(" + strings.Join(alternatives, "|") + ")")
	}
	b.WriteString(whitespace + `\}`)
	return b.String(), nil
}

// resolveRef resolves a local "#/definitions/Name" or "#/$defs/Name"
// reference against the root schema. Non-local refs are unsupported.
func (t *translator) resolveRef(ref, path string) (Schema, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, &TranslateError{Path: path, Construct: "$ref", Err: fmt.Errorf("%w: only local refs are supported, got %q", ErrSchemaUnsupported, ref)}
	}
	parts := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	var cur Schema = t.root
	for _, p := range parts {
		next, ok := cur.obj(p)
		if !ok {
			return nil, &TranslateError{Path: path, Construct: "$ref", Err: fmt.Errorf("unresolved ref segment %q in %q", p, ref)}
		}
		cur = next
	}
	return cur, nil
}

// regexEscapeLiteral escapes s for inclusion inside a regex as a literal
// string, used for enum values and object property names.
func regexEscapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// validatePattern checks pattern parses under the same regexp/syntax
// flavor the dfa/nfa compiler accepts, surfacing a translation error early
// rather than deferring to a confusing DFA compile failure later.
func validatePattern(pattern, path string) error {
	if _, err := syntax.Parse(pattern, syntax.Perl); err != nil {
		return &TranslateError{Path: path, Construct: "pattern", Err: err}
	}
	return nil
}
