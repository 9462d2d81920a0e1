package decode

import (
	"encoding/json"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Options customizes Decode behavior.
type Options struct {
	// WeaklyTypedInput (default true) tolerates the usual JSON sloppiness:
	// "123" -> int, 1.0 -> int64, etc.
	WeaklyTypedInput bool
}

func DefaultOptions() Options {
	return Options{
		WeaklyTypedInput: true,
	}
}

func WithWeaklyTypedInput(v bool) Options {
	return Options{WeaklyTypedInput: v}
}

// DecodeMap decodes a raw event payload (map[string]any straight off the
// wire) into an arbitrary struct T. Struct fields are read via `json` tags,
// so the same DTOs serve both the REST and push paths.
func DecodeMap[T any](m map[string]any, opts ...Options) (*T, error) {
	if m == nil {
		return nil, errors.New("payload is nil")
	}

	cfg := DefaultOptions()
	if len(opts) > 0 {
		cfg = opts[0]
	}

	var out T
	decCfg := &mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: cfg.WeaklyTypedInput,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			floatToIntHook(),
			jsonRawStringToMapHook(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}

	dec, err := mapstructure.NewDecoder(decCfg)
	if err != nil {
		return nil, errors.Wrap(err, "new decoder")
	}
	if err := dec.Decode(m); err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	return &out, nil
}

// floatToIntHook converts float64 (the JSON default for numbers) into the
// integer kinds our DTOs use, as long as the value is integral.
func floatToIntHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Float64 {
			return data, nil
		}
		f := data.(float64)
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if f == float64(int64(f)) {
				return int64(f), nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if f >= 0 && f == float64(uint64(f)) {
				return uint64(f), nil
			}
		default:
		}
		return data, nil
	}
}

// jsonRawStringToMapHook lets a field typed map[string]any accept a string
// value holding embedded JSON (some gateways double-encode nested payloads).
func jsonRawStringToMapHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Map {
			return data, nil
		}
		s := data.(string)
		if s == "" {
			return map[string]any{}, nil
		}
		if _, err := strconv.Atoi(s); err == nil {
			return data, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return data, nil
		}
		return m, nil
	}
}
