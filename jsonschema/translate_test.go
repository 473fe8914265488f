package jsonschema_test

import (
	"regexp"
	"testing"

	"github.com/tokenfsm/tokenfsm/jsonschema"
)

func toRegex(t *testing.T, doc string) *regexp.Regexp {
	t.Helper()
	s, err := jsonschema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pattern, err := jsonschema.ToRegex(s)
	if err != nil {
		t.Fatalf("ToRegex: %v", err)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		t.Fatalf("compiling translated pattern %q: %v", pattern, err)
	}
	return re
}

func TestTranslatePrimitives(t *testing.T) {
	cases := []struct {
		schema string
		accept []string
		reject []string
	}{
		{`{"type":"boolean"}`, []string{"true", "false"}, []string{"True", "1"}},
		{`{"type":"integer"}`, []string{"0", "-5", "42"}, []string{"3.14", "01"}},
		{`{"type":"string"}`, []string{`"hi"`, `""`}, []string{"hi"}},
		{`{"type":"null"}`, []string{"null"}, []string{"nil"}},
	}
	for _, c := range cases {
		re := toRegex(t, c.schema)
		for _, a := range c.accept {
			if !re.MatchString(a) {
				t.Errorf("%s: expected accept %q", c.schema, a)
			}
		}
		for _, r := range c.reject {
			if re.MatchString(r) {
				t.Errorf("%s: expected reject %q", c.schema, r)
			}
		}
	}
}

func TestTranslateObjectWithRequiredAndOptional(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"age": {"type": "integer"}, "name": {"type": "string"}},
		"required": ["name"]
	}`
	re := toRegex(t, schema)
	if !re.MatchString(`{"age":1,"name":"a"}`) {
		t.Error("expected accept with both properties present")
	}
	if !re.MatchString(`{"name":"a"}`) {
		t.Error("expected accept with only the required property present")
	}
	if re.MatchString(`{"age":1}`) {
		t.Error("expected reject when the required property is missing")
	}
}

func TestTranslateArrayOfItems(t *testing.T) {
	schema := `{"type":"array","items":{"type":"integer"}}`
	re := toRegex(t, schema)
	for _, a := range []string{"[]", "[1]", "[1,2,3]"} {
		if !re.MatchString(a) {
			t.Errorf("expected accept %q", a)
		}
	}
	if re.MatchString(`[1,"a"]`) {
		t.Error("expected reject for a non-integer element")
	}
}

func TestTranslateLocalRef(t *testing.T) {
	schema := `{
		"definitions": {"Point": {"type": "object", "properties": {"x": {"type": "integer"}}, "required": ["x"]}},
		"type": "object",
		"properties": {"origin": {"$ref": "#/definitions/Point"}},
		"required": ["origin"]
	}`
	re := toRegex(t, schema)
	if !re.MatchString(`{"origin":{"x":1}}`) {
		t.Error("expected accept through a resolved local $ref")
	}
}

func TestTranslateUnsupportedConstruct(t *testing.T) {
	s, err := jsonschema.Parse([]byte(`{"type":"object"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := jsonschema.ToRegex(s); err == nil {
		t.Fatal("expected SchemaUnsupported for an object schema without properties")
	}
}
