package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// decodeObject parses raw as a JSON object keeping numbers exact.
func decodeObject(raw []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return obj, nil
}

// reader pulls typed values out of an untyped JSON object, recording a field
// error at the value's path whenever the JSON type does not fit.
type reader struct {
	errs FieldErrors
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func (r *reader) has(m map[string]interface{}, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

func (r *reader) str(m map[string]interface{}, key, prefix string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.errs.add(joinPath(prefix, key), "must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

// optStr returns nil for absent, null or blank values.
func (r *reader) optStr(m map[string]interface{}, key, prefix string) *string {
	s := r.str(m, key, prefix)
	if s == "" {
		return nil
	}
	return &s
}

// dec accepts JSON numbers and numeric strings.
func (r *reader) dec(m map[string]interface{}, key, prefix string) decimal.Decimal {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Zero
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(t))
	default:
		err = fmt.Errorf("unexpected %T", v)
	}
	if err != nil {
		r.errs.add(joinPath(prefix, key), "must be a number")
		return decimal.Zero
	}
	return d
}

func (r *reader) strSlice(m map[string]interface{}, key, prefix string) []string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		r.errs.add(joinPath(prefix, key), "must be an array")
		return nil
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			r.errs.add(fmt.Sprintf("%s[%d]", joinPath(prefix, key), i), "must be a string")
			continue
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func (r *reader) obj(m map[string]interface{}, key, prefix string) map[string]interface{} {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	o, ok := v.(map[string]interface{})
	if !ok {
		r.errs.add(joinPath(prefix, key), "must be an object")
		return nil
	}
	return o
}

func (r *reader) objSlice(m map[string]interface{}, key, prefix string) ([]map[string]interface{}, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	arr, ok := v.([]interface{})
	if !ok {
		r.errs.add(joinPath(prefix, key), "must be an array")
		return nil, false
	}
	out := make([]map[string]interface{}, 0, len(arr))
	for i, e := range arr {
		o, ok := e.(map[string]interface{})
		if !ok {
			r.errs.add(fmt.Sprintf("%s[%d]", joinPath(prefix, key), i), "must be an object")
			o = map[string]interface{}{}
		}
		out = append(out, o)
	}
	return out, true
}
