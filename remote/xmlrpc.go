package remote

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// ErrMalformedCall is returned when a request body is not an XML-RPC method
// call.
var ErrMalformedCall = errors.New("malformed xml-rpc method call")

// Call is a decoded XML-RPC method call.
type Call struct {
	Method string
	Params []any
}

// DecodeCall reads an XML-RPC methodCall document. Values decode to string,
// int64, bool, float64, []byte, []any and map[string]any. A value without a
// type element is a string, as the protocol specifies.
func DecodeCall(r io.Reader) (*Call, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "reading xml-rpc request")
	}
	root := doc.Root()
	if root == nil || root.Tag != "methodCall" {
		return nil, errors.Wrap(ErrMalformedCall, "missing methodCall element")
	}
	name := root.SelectElement("methodName")
	if name == nil || strings.TrimSpace(name.Text()) == "" {
		return nil, errors.Wrap(ErrMalformedCall, "missing methodName element")
	}

	c := &Call{Method: strings.TrimSpace(name.Text())}
	params := root.SelectElement("params")
	if params == nil {
		return c, nil
	}
	for i, p := range params.SelectElements("param") {
		ve := p.SelectElement("value")
		if ve == nil {
			return nil, errors.Wrapf(ErrMalformedCall, "param %d has no value", i)
		}
		v, err := decodeValue(ve)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding param %d", i)
		}
		c.Params = append(c.Params, v)
	}

	return c, nil
}

func decodeValue(ve *etree.Element) (any, error) { //nolint:cyclop
	children := ve.ChildElements()
	if len(children) == 0 {
		return ve.Text(), nil
	}
	el := children[0]
	text := strings.TrimSpace(el.Text())
	switch el.Tag {
	case "string":
		return el.Text(), nil
	case "int", "i4", "i8":
		n, err := strconv.ParseInt(text, 10, 64)
		return n, errors.Wrapf(err, "parsing %s %q", el.Tag, text)
	case "boolean":
		switch text {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
		return nil, errors.Wrapf(ErrMalformedCall, "invalid boolean %q", text)
	case "double":
		f, err := strconv.ParseFloat(text, 64)
		return f, errors.Wrapf(err, "parsing double %q", text)
	case "base64":
		b, err := base64.StdEncoding.DecodeString(text)
		return b, errors.Wrap(err, "decoding base64")
	case "dateTime.iso8601":
		return text, nil
	case "nil":
		return nil, nil
	case "array":
		return decodeArray(el)
	case "struct":
		return decodeStruct(el)
	}
	return nil, errors.Wrapf(ErrMalformedCall, "unsupported value type %q", el.Tag)
}

func decodeArray(el *etree.Element) ([]any, error) {
	out := []any{}
	data := el.SelectElement("data")
	if data == nil {
		return out, nil
	}
	for i, ve := range data.SelectElements("value") {
		v, err := decodeValue(ve)
		if err != nil {
			return nil, errors.Wrapf(err, "array item %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeStruct(el *etree.Element) (map[string]any, error) {
	out := make(map[string]any)
	for _, m := range el.SelectElements("member") {
		ne, ve := m.SelectElement("name"), m.SelectElement("value")
		if ne == nil || ve == nil {
			return nil, errors.Wrap(ErrMalformedCall, "struct member needs a name and a value")
		}
		v, err := decodeValue(ve)
		if err != nil {
			return nil, errors.Wrapf(err, "struct member %q", ne.Text())
		}
		out[ne.Text()] = v
	}
	return out, nil
}

func newDocument(root string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc, doc.CreateElement(root)
}

// EncodeResponse writes v as the single value of an XML-RPC methodResponse.
func EncodeResponse(w io.Writer, v any) error {
	doc, root := newDocument("methodResponse")
	value := root.CreateElement("params").CreateElement("param").CreateElement("value")
	if err := encodeValue(value, v); err != nil {
		return err
	}
	_, err := doc.WriteTo(w)
	return errors.Wrap(err, "writing xml-rpc response")
}

// EncodeFault writes an XML-RPC fault response.
func EncodeFault(w io.Writer, code int, msg string) error {
	doc, root := newDocument("methodResponse")
	value := root.CreateElement("fault").CreateElement("value")
	if err := encodeValue(value, map[string]any{"faultCode": code, "faultString": msg}); err != nil {
		return err
	}
	_, err := doc.WriteTo(w)
	return errors.Wrap(err, "writing xml-rpc fault")
}

// encodeValue writes v into the value element ve. Nil becomes an empty
// string, since the protocol has no standard null; unknown types are written
// in their fmt form.
func encodeValue(ve *etree.Element, v any) error { //nolint:cyclop,funlen
	switch t := v.(type) {
	case nil:
		ve.CreateElement("string")
	case string:
		ve.CreateElement("string").SetText(t)
	case bool:
		b := "0"
		if t {
			b = "1"
		}
		ve.CreateElement("boolean").SetText(b)
	case int:
		return encodeInt(ve, int64(t))
	case int32:
		return encodeInt(ve, int64(t))
	case int64:
		return encodeInt(ve, t)
	case float32:
		ve.CreateElement("double").SetText(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case float64:
		ve.CreateElement("double").SetText(strconv.FormatFloat(t, 'f', -1, 64))
	case []byte:
		ve.CreateElement("base64").SetText(base64.StdEncoding.EncodeToString(t))
	case []string:
		data := ve.CreateElement("array").CreateElement("data")
		for _, s := range t {
			data.CreateElement("value").CreateElement("string").SetText(s)
		}
	case []any:
		data := ve.CreateElement("array").CreateElement("data")
		for i, e := range t {
			if err := encodeValue(data.CreateElement("value"), e); err != nil {
				return errors.Wrapf(err, "array item %d", i)
			}
		}
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = e
		}
		return encodeValue(ve, m)
	case map[string]any:
		st := ve.CreateElement("struct")
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m := st.CreateElement("member")
			m.CreateElement("name").SetText(k)
			if err := encodeValue(m.CreateElement("value"), t[k]); err != nil {
				return errors.Wrapf(err, "struct member %q", k)
			}
		}
	case error:
		ve.CreateElement("string").SetText(t.Error())
	default:
		ve.CreateElement("string").SetText(fmt.Sprint(t))
	}
	return nil
}

// encodeInt writes n as an int, or as a string when it does not fit the
// protocol's 32 bit integers.
func encodeInt(ve *etree.Element, n int64) error {
	if n < math.MinInt32 || n > math.MaxInt32 {
		ve.CreateElement("string").SetText(strconv.FormatInt(n, 10))
		return nil
	}
	ve.CreateElement("int").SetText(strconv.FormatInt(n, 10))
	return nil
}
