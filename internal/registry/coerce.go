package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/bus"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/decl"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/generators"
)

var widthType = reflect.TypeOf(bus.Width{})

// widthHook turns numbers and expressions into bus.Width values.
func widthHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	if t != widthType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return bus.Bits(v), nil
	case int64:
		return bus.Bits(int(v)), nil
	case uint64:
		return bus.Bits(int(v)), nil
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("width %v is not an integer", v)
		}
		return bus.Bits(int(v)), nil
	case json.Number:
		return bus.Expr(v.String()), nil
	case string:
		return bus.Expr(v), nil
	}
	return data, nil
}

// decode binds a normalised argument list to target, matching fields by
// their json tags.
func decode(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(widthHook),
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ordered normalises a template argument into a list of objects. It
// accepts a slice of objects, a slice of single-key objects (key becomes
// keyField, value becomes valueField), a single-key object, or a JSON
// string holding any of those. Multi-key objects are rejected because
// their order is undefined.
func ordered(arg any, keyField, valueField string) ([]any, error) {
	if s, ok := arg.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return nil, fmt.Errorf("argument is neither a list nor JSON: %w", err)
		}
		arg = parsed
	}
	if arg == nil {
		return nil, nil
	}

	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Map:
		pair, err := single(v, keyField, valueField)
		if err != nil {
			return nil, err
		}
		return []any{pair}, nil

	case reflect.Slice, reflect.Array:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := reflect.Indirect(v.Index(i))
			if elem.Kind() == reflect.Interface {
				elem = elem.Elem()
			}
			if elem.Kind() != reflect.Map {
				out = append(out, elem.Interface())
				continue
			}
			if hasKey(elem, keyField) {
				out = append(out, elem.Interface())
				continue
			}
			pair, err := single(elem, keyField, valueField)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, pair)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list, got %T", arg)
}

func hasKey(m reflect.Value, key string) bool {
	switch m.Type().Key().Kind() {
	case reflect.String, reflect.Interface:
		return m.MapIndex(reflect.ValueOf(key).Convert(m.Type().Key())).IsValid()
	}
	return false
}

func single(m reflect.Value, keyField, valueField string) (map[string]any, error) {
	if m.Len() != 1 {
		keys := make([]string, 0, m.Len())
		for _, k := range m.MapKeys() {
			keys = append(keys, fmt.Sprint(k.Interface()))
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("mapping with %d keys %v has no defined order; pass a list", m.Len(), keys)
	}
	iter := m.MapRange()
	iter.Next()
	return map[string]any{
		keyField:   fmt.Sprint(iter.Key().Interface()),
		valueField: iter.Value().Interface(),
	}, nil
}

func toSignals(arg any) ([]bus.Signal, error) {
	if s, ok := arg.([]bus.Signal); ok {
		return s, nil
	}
	items, err := ordered(arg, "name", "width")
	if err != nil {
		return nil, err
	}
	var out []bus.Signal
	if err := decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toParams(arg any) ([]decl.Param, error) {
	if p, ok := arg.([]decl.Param); ok {
		return p, nil
	}
	items, err := ordered(arg, "name", "value")
	if err != nil {
		return nil, err
	}
	var out []decl.Param
	if err := decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toEntries(arg any) ([]generators.Entry, error) {
	if e, ok := arg.([]generators.Entry); ok {
		return e, nil
	}
	items, err := ordered(arg, "cond", "value")
	if err != nil {
		return nil, err
	}
	var out []generators.Entry
	if err := decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// toConnections also accepts a plain list of port names, each connected
// to a net of the same name.
func toConnections(arg any) ([]generators.Connection, error) {
	switch c := arg.(type) {
	case []generators.Connection:
		return c, nil
	case []string:
		out := make([]generators.Connection, len(c))
		for i, port := range c {
			out[i] = generators.Connection{Port: port}
		}
		return out, nil
	}
	items, err := ordered(arg, "port", "signal")
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if name, ok := item.(string); ok {
			items[i] = map[string]any{"port": name}
		}
	}
	var out []generators.Connection
	if err := decode(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toNames(arg any) ([]string, error) {
	switch n := arg.(type) {
	case nil:
		return nil, nil
	case []string:
		return n, nil
	case string:
		return []string{n}, nil
	}
	var out []string
	if err := decode(arg, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toInt(arg any) (int, error) {
	if arg == nil {
		return 0, fmt.Errorf("expected an integer, got nothing")
	}
	var n int
	if err := decode(arg, &n); err != nil {
		return 0, fmt.Errorf("expected an integer, got %v", arg)
	}
	return n, nil
}
