package packagist

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Param is a single query string parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query string parameters. Encoding preserves
// insertion order.
type Params []Param

// Set returns a copy of p with key set to value. An existing key keeps its
// position; a new key is appended.
func (p Params) Set(key string, value any) Params {
	out := slices.Clone(p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Encode renders p as a URL query string (without the leading "?").
//
// Keys and values are escaped with url.QueryEscape. Booleans become 1 or 0
// and nil values are dropped. Slices and arrays expand to key[0]=a&key[1]=b,
// maps to key[k]=v in sorted key order, recursively for nested values.
func (p Params) Encode() string {
	var b strings.Builder
	for _, kv := range p {
		writePair(&b, url.QueryEscape(kv.Key), kv.Value)
	}
	return b.String()
}

func writePair(b *strings.Builder, key string, value any) {
	if value == nil {
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return
		}
		writePair(b, key, rv.Elem().Interface())
		return
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break // []byte is a string
		}
		for i := 0; i < rv.Len(); i++ {
			writePair(b, nestedKey(key, strconv.Itoa(i)), rv.Index(i).Interface())
		}
		return
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byName := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			name := scalarString(k.Interface())
			keys = append(keys, name)
			byName[name] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		for _, name := range keys {
			writePair(b, nestedKey(key, name), byName[name].Interface())
		}
		return
	}

	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(scalarString(value)))
}

func nestedKey(key, sub string) string {
	return key + url.QueryEscape("["+sub+"]")
}

func scalarString(value any) string {
	if v, ok := value.(bool); ok {
		if v {
			return "1"
		}
		return "0"
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}
