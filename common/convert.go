package common

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

var (
	// ErrUnknownOption is returned when a named argument does not match any
	// option of the operation it is passed to.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidValue is returned when a value cannot be converted to the
	// type an option or argument expects.
	ErrInvalidValue = errors.New("invalid value")
)

// Options are the named arguments of a keyword call.
type Options map[string]any

// each calls fn for every option in key order, so that the first failing
// option is the same from one call to the next.
func (o Options) each(fn func(k string, v any) error) error {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, o[k]); err != nil {
			return err
		}
	}
	return nil
}

func unknownOption(op, k string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownOption, k, op)
}

func invalid(v any, want string) error {
	return fmt.Errorf("%w %v (%T): expected %s", ErrInvalidValue, v, v, want)
}

// ToBool converts a keyword argument to a bool. Strings are accepted the way
// a tabular test file writes them ("True", "false", "yes", "0").
func ToBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0", "", "none":
			return false, nil
		}
	case int, int32, int64, float64:
		f, _ := ToFloat(t)
		return f != 0, nil
	}
	return false, invalid(v, "a boolean")
}

// ToFloat converts a keyword argument to a float64.
func ToFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, invalid(v, "a number")
}

// ToInt converts a keyword argument to an int. Fractional numbers and
// numbers outside the int64 range are rejected.
func ToInt(v any) (int64, error) {
	f, err := ToFloat(v)
	if err != nil || f != math.Trunc(f) {
		return 0, invalid(v, "an integer")
	}
	// float64(math.MaxInt64) rounds up to 2^63.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, invalid(v, "an integer in the int64 range")
	}
	return int64(f), nil
}

// toEngineInt converts v to an integer the engine can take as an int32.
func toEngineInt(v any) (int64, error) {
	i, err := ToInt(v)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, invalid(v, "an integer in the int32 range")
	}
	return i, nil
}

// ToString converts a keyword argument to a string. Only strings and numbers
// convert; maps and lists do not.
func ToString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int, int32, int64:
		return fmt.Sprintf("%d", t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", invalid(v, "a string")
}

// ToStringSlice converts a keyword argument to a list of strings. A single
// string becomes a one element list.
func ToStringSlice(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []string:
		return t, nil
	case []any:
		ss := make([]string, 0, len(t))
		for _, e := range t {
			s, err := ToString(e)
			if err != nil {
				return nil, invalid(v, "a list of strings")
			}
			ss = append(ss, s)
		}
		return ss, nil
	}
	return nil, invalid(v, "a list of strings")
}

// ToMap converts a keyword argument to a dictionary.
func ToMap(v any) (map[string]any, error) {
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case Options:
		return t, nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = e
		}
		return m, nil
	}
	return nil, invalid(v, "a dictionary")
}

// ToStringMap converts a keyword argument to a dictionary of strings.
func ToStringMap(v any) (map[string]string, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	sm := make(map[string]string, len(m))
	for k, e := range m {
		s, err := ToString(e)
		if err != nil {
			return nil, invalid(v, "a dictionary of strings")
		}
		sm[k] = s
	}
	return sm, nil
}

// oneOf checks that s is one of the allowed values.
func oneOf(s string, allowed ...string) error {
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return fmt.Errorf("%w %q: expected one of %s", ErrInvalidValue, s, strings.Join(allowed, ", "))
}

func nullBool(v any) (null.Bool, error) {
	b, err := ToBool(v)
	if err != nil {
		return null.Bool{}, err
	}
	return null.BoolFrom(b), nil
}

func nullFloat(v any) (null.Float, error) {
	f, err := ToFloat(v)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(f), nil
}

func nullInt(v any) (null.Int, error) {
	i, err := toEngineInt(v)
	if err != nil {
		return null.Int{}, err
	}
	return null.IntFrom(i), nil
}

func nullString(v any) (null.String, error) {
	s, err := ToString(v)
	if err != nil {
		return null.String{}, err
	}
	return null.StringFrom(s), nil
}

// enum converts v to a string and checks it against the allowed values.
func enum(v any, allowed ...string) (string, error) {
	s, err := ToString(v)
	if err != nil {
		return "", err
	}
	return s, oneOf(s, allowed...)
}
