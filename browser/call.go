package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playbot-dev/playbot/api"
	"github.com/playbot-dev/playbot/common"
)

var (
	// ErrUnknownKeyword is returned when running a keyword that does not exist.
	ErrUnknownKeyword = errors.New("unknown keyword")

	// ErrArguments is returned when a keyword is called with arguments that
	// do not fit its argument specification.
	ErrArguments = errors.New("invalid keyword arguments")

	// ErrUnknownHandle is returned when a handle id is not, or no longer,
	// registered.
	ErrUnknownHandle = errors.New("unknown handle")
)

// param is one entry of a keyword argument specification: "name",
// "name=default" or "**kwargs".
type param struct {
	name     string
	optional bool
	def      string
}

func parseSpec(spec []string) (params []param, kwargs bool) {
	for _, s := range spec {
		if strings.HasPrefix(s, "**") {
			kwargs = true
			continue
		}
		name, def, optional := strings.Cut(s, "=")
		params = append(params, param{name: name, optional: optional, def: def})
	}
	return params, kwargs
}

// call is a keyword invocation bound to the keyword's argument specification.
type call struct {
	keyword string
	args    map[string]any
	ids     map[string]string
	opts    common.Options
	handles *handles
}

// bind matches positional and named arguments to spec. Named arguments that
// name a declared parameter fill it; the others become options, if the
// keyword accepts them.
func bind(keyword string, spec []string, args []any, kwargs map[string]any, h *handles) (*call, error) {
	params, acceptsOpts := parseSpec(spec)
	if len(args) > len(params) {
		return nil, fmt.Errorf("%w: %s expects at most %d positional arguments, got %d",
			ErrArguments, keyword, len(params), len(args))
	}

	c := &call{
		keyword: keyword,
		args:    make(map[string]any, len(params)),
		ids:     make(map[string]string),
		opts:    make(common.Options),
		handles: h,
	}
	named := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		named[k] = v
	}
	for i, p := range params {
		v, byName := named[p.name]
		switch {
		case i < len(args) && byName:
			return nil, fmt.Errorf("%w: %s got multiple values for %q", ErrArguments, keyword, p.name)
		case i < len(args):
			c.args[p.name] = args[i]
		case byName:
			c.args[p.name] = v
			delete(named, p.name)
		case p.optional:
			if p.def != "" {
				c.args[p.name] = p.def
			}
		default:
			return nil, fmt.Errorf("%w: %s is missing the %q argument", ErrArguments, keyword, p.name)
		}
	}
	for k, v := range named {
		if !acceptsOpts {
			return nil, fmt.Errorf("%w: %s got an unexpected named argument %q", ErrArguments, keyword, k)
		}
		c.opts[k] = v
	}

	return c, nil
}

func (c *call) argError(name string, err error) error {
	return fmt.Errorf("%s: argument %q: %w", c.keyword, name, err)
}

// has reports whether an argument was given and is not empty.
func (c *call) has(name string) bool {
	v, ok := c.args[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

func (c *call) str(name string) (string, error) {
	if !c.has(name) {
		return "", nil
	}
	s, err := common.ToString(c.args[name])
	if err != nil {
		return "", c.argError(name, err)
	}
	return s, nil
}

func (c *call) float(name string) (float64, error) {
	f, err := common.ToFloat(c.args[name])
	if err != nil {
		return 0, c.argError(name, err)
	}
	return f, nil
}

func (c *call) stringSlice(name string) ([]string, error) {
	if !c.has(name) {
		return nil, nil
	}
	ss, err := common.ToStringSlice(c.args[name])
	if err != nil {
		return nil, c.argError(name, err)
	}
	return ss, nil
}

// resolve returns the value an argument refers to, looking handle ids up.
func (c *call) resolve(name string) (any, error) {
	v := c.args[name]
	id, ok := v.(string)
	if !ok {
		return v, nil
	}
	if !isID(id) {
		return nil, c.argError(name, fmt.Errorf("%w: %q is not a handle", ErrArguments, id))
	}
	rv, ok := c.handles.get(id)
	if !ok {
		return nil, c.argError(name, fmt.Errorf("%w %q", ErrUnknownHandle, id))
	}
	c.ids[name] = id
	return rv, nil
}

func (c *call) context(name string) (*Context, error) {
	v, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	bc, ok := v.(*Context)
	if !ok {
		return nil, c.argError(name, fmt.Errorf("%w: expected a browser context, got %T", ErrArguments, v))
	}
	return bc, nil
}

func (c *call) page(name string) (*Page, error) {
	v, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*Page)
	if !ok {
		return nil, c.argError(name, fmt.Errorf("%w: expected a page, got %T", ErrArguments, v))
	}
	return p, nil
}

func (c *call) handle(name string) (Handle, error) {
	v, err := c.resolve(name)
	if err != nil {
		return Handle{}, err
	}
	switch t := v.(type) {
	case Handle:
		return t, nil
	case *Page:
		return OnPage(t), nil
	case api.ElementHandle:
		return OnElement(t), nil
	}
	return Handle{}, c.argError(name, fmt.Errorf("%w, got %T", ErrNoHandle, v))
}

// element registers e as produced from the handle argument and returns its
// id, or nil when there is no element.
func (c *call) element(e api.ElementHandle) any {
	if e == nil {
		return nil
	}
	return c.handles.add(kindElement, e, c.ids["handle"])
}

func (c *call) elements(es []api.ElementHandle) []any {
	ids := make([]any, 0, len(es))
	for _, e := range es {
		ids = append(ids, c.handles.add(kindElement, e, c.ids["handle"]))
	}
	return ids
}
