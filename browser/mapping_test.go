package browser

import (
	"reflect"
	"sort"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbot-dev/playbot/common"
)

// customMappings maps Library methods to keywords whose names are not the
// snake case form of the method name. Methods mapped to "" are not keywords.
func customMappings() map[string]string {
	return map[string]string{
		"BrowserVersion":   "get_browser_version",
		"Frame":            "get_frame",
		"Backend":          "",
		"Browser":          "",
		"SetFilePersister": "",
	}
}

func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "wait_for_url", snakeCase("WaitForURL"))
	assert.Equal(t, "go_to", snakeCase("GoTo"))
	assert.Equal(t, "query_selector_all", snakeCase("QuerySelectorAll"))
}

// TestMappings tests that every Library method is exposed as exactly one
// keyword and that every keyword is backed by a Library method.
func TestMappings(t *testing.T) {
	t.Parallel()

	lib, _ := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)
	custom := customMappings()

	mapped := make(map[string]string)
	typ := reflect.TypeOf(lib)
	for i := 0; i < typ.NumMethod(); i++ {
		name := typ.Method(i).Name
		k, ok := custom[name]
		if !ok {
			k = snakeCase(name)
		}
		if k == "" {
			continue
		}
		_, ok = kw.mapping[k]
		assert.Truef(t, ok, "method %s is not mapped to the %q keyword", name, k)
		mapped[k] = name
	}
	for k := range kw.mapping {
		_, ok := mapped[k]
		assert.Truef(t, ok, "keyword %q has no Library method", k)
	}
}

func TestKeywordsNames(t *testing.T) {
	t.Parallel()

	lib, _ := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	names := kw.Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "start_browser")
	assert.Contains(t, names, "wait_for_element_state")
	assert.Len(t, names, len(kw.mapping))

	for _, n := range names {
		doc, err := kw.Documentation(n)
		require.NoError(t, err)
		assert.NotEmptyf(t, doc, "keyword %q has no documentation", n)
	}

	intro, err := kw.Documentation("__intro__")
	require.NoError(t, err)
	assert.Contains(t, intro, "Start Browser")
	_, err = kw.Documentation("__init__")
	require.NoError(t, err)

	args, err := kw.Arguments("Close Context")
	require.NoError(t, err)
	assert.Equal(t, []string{"context"}, args)

	args, err = kw.Arguments("is_visible")
	require.NoError(t, err)
	assert.Equal(t, []string{"handle", "selector=", "timeout="}, args)

	_, err = kw.Arguments("Fly To Moon")
	assert.ErrorIs(t, err, ErrUnknownKeyword)
	_, err = kw.Documentation("Fly To Moon")
	assert.ErrorIs(t, err, ErrUnknownKeyword)
}

func TestKeywordsRun(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, map[string]any{"headless": false, "slow_mo": 10})
	require.NoError(t, err)
	assert.False(t, launcher.opts.Headless.Bool)
	assert.InDelta(t, 10, launcher.opts.SlowMo.Float64, 0)

	ctxID, err := kw.Run("New Context", nil, map[string]any{
		"viewport": map[string]any{"width": 800, "height": 600},
	})
	require.NoError(t, err)
	assert.Equal(t, "context-1", ctxID)
	assert.Equal(t, &common.Size{Width: 800, Height: 600}, launcher.browser.ctxOpts.Viewport)

	pageID, err := kw.Run("new_page", []any{ctxID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "page-2", pageID)

	fc := launcher.browser.contexts[0]
	fp := fc.pages[0]
	fp.resp = &fakeResponse{status: 200, url: "https://example.com/"}
	btn := newFakeElement()
	btn.visible = true
	fp.elements["#btn"] = []*fakeElement{btn}

	resp, err := kw.Run("Go To", []any{pageID, "https://example.com"}, map[string]any{"wait_until": "load"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"url":        "https://example.com/",
		"status":     200,
		"statusText": "OK",
		"ok":         true,
	}, resp)

	elID, err := kw.Run("Query Selector", []any{pageID, "#btn"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "element-3", elID)

	missing, err := kw.Run("Query Selector", []any{pageID, "#missing"}, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := kw.Run("Query Selector All", []any{pageID, "#btn"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"element-4"}, all)

	visible, err := kw.Run("Is Visible", []any{elID}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, visible)

	_, err = kw.Run("Click", []any{elID, "#btn"}, nil)
	require.ErrorIs(t, err, ErrSelectorOnElement)

	_, err = kw.Run("Click", []any{pageID, "#btn"}, map[string]any{"button": "right", "click_count": 2})
	require.NoError(t, err)
	assert.Equal(t, common.MouseButtonRight, fp.clickOpts.Button)
	assert.Equal(t, int64(2), fp.clickOpts.ClickCount.Int64)

	_, err = kw.Run("Wait For Element State", []any{elID, "enabled"}, nil)
	require.NoError(t, err)
	assert.Equal(t, common.ElementStateEnabled, btn.state)

	_, err = kw.Run("Wait For Element State", []any{pageID, "enabled"}, nil)
	require.ErrorIs(t, err, ErrElementRequired)

	_, err = kw.Run("Wait For Timeout", []any{pageID, 0}, nil)
	require.NoError(t, err)

	fc.cookies = []common.Cookie{{Name: "session", Value: "abc", Path: "/"}}
	cookies, err := kw.Run("Cookies", []any{ctxID, "https://example.com"}, nil)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies.([]any)[0].(map[string]any)["name"]) //nolint:forcetypeassert
	assert.Equal(t, []string{"https://example.com"}, fc.urls)

	_, err = kw.Run("Close Context", []any{ctxID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, kw.handles.len(), "closing the context releases its pages and elements")

	_, err = kw.Run("New Page", []any{ctxID}, nil)
	require.ErrorIs(t, err, errTargetClosed)
	_, err = kw.Run("Click", []any{elID}, nil)
	require.ErrorIs(t, err, ErrUnknownHandle)

	_, err = kw.Run("Close Browser", nil, nil)
	require.NoError(t, err)
	_, err = kw.Run("New Context", nil, nil)
	require.ErrorIs(t, err, ErrNoBrowser)
}

func TestKeywordsClose(t *testing.T) {
	t.Parallel()

	lib, _ := newTestLibrary(t, "webkit")
	kw := NewKeywords(lib)

	_, err := kw.Run("start_browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("new_context", nil, nil)
	require.NoError(t, err)
	p1, err := kw.Run("new_page", []any{ctxID}, nil)
	require.NoError(t, err)
	p2, err := kw.Run("new_page", []any{ctxID}, nil)
	require.NoError(t, err)

	_, err = kw.Run("close_page", []any{p1}, nil)
	require.NoError(t, err)
	_, err = kw.Run("go_to", []any{p1, "about:blank"}, nil)
	require.ErrorIs(t, err, errTargetClosed)

	resp, err := kw.Run("go_to", []any{p2, "about:blank"}, nil)
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = kw.Run("close_browser", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, kw.handles.len())
}

func TestKeywordsCloseTwice(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("New Context", nil, nil)
	require.NoError(t, err)
	pageID, err := kw.Run("New Page", []any{ctxID}, nil)
	require.NoError(t, err)
	fp := launcher.browser.contexts[0].pages[0]
	fp.elements["#btn"] = []*fakeElement{newFakeElement()}
	elID, err := kw.Run("Query Selector", []any{pageID, "#btn"}, nil)
	require.NoError(t, err)

	_, err = kw.Run("Close Page", []any{pageID}, nil)
	require.NoError(t, err)
	_, err = kw.Run("Close Page", []any{pageID}, nil)
	require.ErrorIs(t, err, errTargetClosed, "the engine answers the second close")
	assert.Equal(t, []string{"Close ", "Close "}, fp.calls[len(fp.calls)-2:])
	_, err = kw.Run("Click", []any{elID}, nil)
	require.ErrorIs(t, err, ErrUnknownHandle, "elements go with their page")

	_, err = kw.Run("Close Context", []any{ctxID}, nil)
	require.NoError(t, err)
	_, err = kw.Run("Close Context", []any{ctxID}, nil)
	require.ErrorIs(t, err, errTargetClosed)
	assert.NotErrorIs(t, err, ErrUnknownHandle)
	_, err = kw.Run("Close Page", []any{pageID}, nil)
	require.ErrorIs(t, err, ErrUnknownHandle, "pages go with their context")
}

func TestKeywordsWaitForSelectorTimeout(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "firefox")
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("New Context", nil, nil)
	require.NoError(t, err)
	pageID, err := kw.Run("New Page", []any{ctxID}, nil)
	require.NoError(t, err)

	el, err := kw.Run("Wait For Selector", []any{pageID, "#missing"}, map[string]any{"timeout": 200})
	require.ErrorIs(t, err, errTimeout)
	assert.Nil(t, el)
	assert.Equal(t, `timeout: 200ms exceeded waiting for "#missing"`, err.Error(), "the engine error is not wrapped")

	fp := launcher.browser.contexts[0].pages[0]
	assert.InDelta(t, 200, fp.selectorOpts.Timeout.Float64, 0)
	assert.Equal(t, 2, kw.handles.len(), "no element handle is registered")
}

func TestKeywordsErrors(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	tests := []struct {
		name    string
		keyword string
		args    []any
		kwargs  map[string]any
		wantErr error
	}{
		{
			name:    "unknown_keyword",
			keyword: "Fly To Moon",
			wantErr: ErrUnknownKeyword,
		},
		{
			name:    "unknown_launch_option",
			keyword: "Start Browser",
			kwargs:  map[string]any{"wings": true},
			wantErr: common.ErrUnknownOption,
		},
		{
			name:    "invalid_launch_option",
			keyword: "Start Browser",
			kwargs:  map[string]any{"headless": "maybe"},
			wantErr: common.ErrInvalidValue,
		},
		{
			name:    "no_browser",
			keyword: "New Context",
			wantErr: ErrNoBrowser,
		},
		{
			name:    "missing_argument",
			keyword: "New Page",
			wantErr: ErrArguments,
		},
		{
			name:    "too_many_arguments",
			keyword: "Close Context",
			args:    []any{"context-1", "context-2"},
			wantErr: ErrArguments,
		},
		{
			name:    "unexpected_named_argument",
			keyword: "Close Context",
			kwargs:  map[string]any{"context": "context-1", "force": true},
			wantErr: ErrArguments,
		},
		{
			name:    "not_a_handle",
			keyword: "New Page",
			args:    []any{"https://example.com"},
			wantErr: ErrArguments,
		},
		{
			name:    "unknown_handle",
			keyword: "New Page",
			args:    []any{"context-42"},
			wantErr: ErrUnknownHandle,
		},
		{
			name:    "unknown_element",
			keyword: "Wait For Element State",
			args:    []any{"element-1", "asleep"},
			wantErr: ErrUnknownHandle,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := kw.Run(tt.keyword, tt.args, tt.kwargs)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, launcher.launched)
}

func TestKeywordsWrongHandleKind(t *testing.T) {
	t.Parallel()

	lib, _ := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("New Context", nil, nil)
	require.NoError(t, err)
	pageID, err := kw.Run("New Page", []any{ctxID}, nil)
	require.NoError(t, err)

	_, err = kw.Run("New Page", []any{pageID}, nil)
	require.ErrorIs(t, err, ErrArguments)
	_, err = kw.Run("Go To", []any{ctxID, "about:blank"}, nil)
	require.ErrorIs(t, err, ErrArguments)
	_, err = kw.Run("Click", []any{ctxID, "#btn"}, nil)
	require.ErrorIs(t, err, ErrNoHandle)

	_, err = kw.Run("Wait For Element State", []any{pageID, "asleep"}, nil)
	require.ErrorIs(t, err, common.ErrInvalidValue)
}

func TestKeywordsScreenshot(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "chromium")
	persister := &fakePersister{}
	lib.SetFilePersister(persister)
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("New Context", nil, nil)
	require.NoError(t, err)
	pageID, err := kw.Run("New Page", []any{ctxID}, nil)
	require.NoError(t, err)
	launcher.browser.contexts[0].pages[0].shot = []byte("jpeg")

	path, err := kw.Run("Take Screenshot", []any{pageID, "shots/a.jpg"}, map[string]any{"type": "jpeg", "quality": 80})
	require.NoError(t, err)
	assert.Equal(t, "shots/a.jpg", path)
	assert.Equal(t, "jpeg", string(persister.data))

	_, err = kw.Run("Take Screenshot", []any{pageID, "shots/a.png"}, map[string]any{"quality": 80})
	require.ErrorIs(t, err, common.ErrInvalidValue)
}

func TestKeywordsGetFrame(t *testing.T) {
	t.Parallel()

	lib, launcher := newTestLibrary(t, "chromium")
	kw := NewKeywords(lib)

	_, err := kw.Run("Start Browser", nil, nil)
	require.NoError(t, err)
	ctxID, err := kw.Run("New Context", nil, nil)
	require.NoError(t, err)
	pageID, err := kw.Run("New Page", []any{ctxID}, nil)
	require.NoError(t, err)

	f, err := kw.Run("Get Frame", []any{pageID}, map[string]any{"name": "ads"})
	require.NoError(t, err)
	assert.Nil(t, f)

	fp := launcher.browser.contexts[0].pages[0]
	fp.frame = &fakeFrame{name: "ads", url: "https://ads.example.com/"}
	f, err = kw.Run("Get Frame", []any{pageID}, map[string]any{"name": "ads"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "ads", "url": "https://ads.example.com/"}, f)
	assert.Equal(t, "Frame ads", fp.calls[len(fp.calls)-1])

	f, err = kw.Run("Get Frame", []any{pageID}, map[string]any{"url": "**/ads"})
	require.NoError(t, err)
	assert.NotNil(t, f)

	calls := len(fp.calls)
	for name, kwargs := range map[string]map[string]any{
		"neither": nil,
		"both":    {"name": "ads", "url": "**/ads"},
		"empty":   {"name": ""},
	} {
		_, err = kw.Run("Get Frame", []any{pageID}, kwargs)
		require.ErrorIsf(t, err, ErrArguments, name)
		assert.ErrorContainsf(t, err, "exactly one of name and url", name)
	}
	assert.Len(t, fp.calls, calls, "the engine is not asked")
}
