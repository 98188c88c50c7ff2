package request

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Param is one query-string entry. A nil Value (or a nil pointer, map,
// slice or interface) is left out of the query string.
type Param struct {
	Key   string
	Value any
}

// Params keeps query parameters in the order the caller added them.
type Params []Param

func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the present entries as key=value pairs joined by '&'.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		value, ok := stringify(param.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	return b.String()
}

// BuildURL joins base and path with exactly one slash and appends the
// encoded params.
func BuildURL(base, path string, params Params) string {
	full := path
	if base != "" {
		if strings.HasPrefix(path, "/") {
			full = base + path
		} else {
			full = base + "/" + path
		}
	}

	if query := params.Encode(); query != "" {
		if strings.Contains(full, "?") {
			full += "&" + query
		} else {
			full += "?" + query
		}
	}
	return full
}

func stringify(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return "", false
		}
	}

	return fmt.Sprint(v.Interface()), true
}
