package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var contentType = reflect.TypeOf(Content{})

// decoder fills a typed value from raw JSON one field and one element at a
// time, so a mistyped value never hides the rest of the payload.
type decoder struct {
	violations []Violation
	// paths that failed a type check
	mistyped []string
}

func (d *decoder) decode(raw json.RawMessage, v reflect.Value, path string) {
	if isNull(raw) {
		return
	}
	if v.Type() == contentType {
		d.decodeContent(raw, v, path)
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		d.decode(raw, elem.Elem(), path)
		if !d.failed(path) {
			v.Set(elem)
		}

	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			d.typeError(path, v.Type())
			return
		}
		d.decodeObject(obj, v, path)

	case reflect.Slice:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			d.typeError(path, v.Type())
			return
		}
		s := reflect.MakeSlice(v.Type(), len(items), len(items))
		for i, item := range items {
			d.decode(item, s.Index(i), fmt.Sprintf("%s[%d]", path, i))
		}
		v.Set(s)

	default:
		if err := json.Unmarshal(raw, v.Addr().Interface()); err != nil {
			d.typeError(path, v.Type())
		}
	}
}

// decodeObject assigns obj's members to the fields of v whose json name
// matches a key exactly. Unknown keys are ignored.
func (d *decoder) decodeObject(obj map[string]json.RawMessage, v reflect.Value, path string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonName(f)
		if name == "" {
			continue
		}
		raw, ok := obj[name]
		if !ok {
			continue
		}
		d.decode(raw, v.Field(i), joinPath(path, name))
	}
}

// decodeContent resolves the string | []ContentBlock union. Any other shape
// is left as ContentInvalid for the content_union rule.
func (d *decoder) decodeContent(raw json.RawMessage, v reflect.Value, path string) {
	c := v.Addr().Interface().(*Content)

	switch bytes.TrimSpace(raw)[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			*c = Content{kind: ContentInvalid}
			return
		}
		*c = TextContent(s)
	case '[':
		var blocks []ContentBlock
		d.decode(raw, reflect.ValueOf(&blocks).Elem(), path)
		*c = BlockContent(blocks...)
	default:
		*c = Content{kind: ContentInvalid}
	}
}

func (d *decoder) typeError(path string, t reflect.Type) {
	d.mistyped = append(d.mistyped, path)

	leaf := path
	if i := strings.LastIndex(leaf, "."); i != -1 {
		leaf = leaf[i+1:]
	}
	kind := jsonType(t)
	d.violations = append(d.violations, Violation{
		Field:   path,
		Rule:    "type",
		Param:   kind,
		Message: fmt.Sprintf("%s must be of type %s", leaf, kind),
	})
}

func (d *decoder) failed(path string) bool {
	for _, p := range d.mistyped {
		if p == path {
			return true
		}
	}
	return false
}

// shadows reports whether field sits at or below a mistyped path.
func (d *decoder) shadows(field string) bool {
	for _, p := range d.mistyped {
		if field == p || strings.HasPrefix(field, p+".") || strings.HasPrefix(field, p+"[") {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}
