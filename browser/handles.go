package browser

import (
	"fmt"
	"strings"
)

// Handle kinds used as id prefixes.
const (
	kindContext = "context"
	kindPage    = "page"
	kindElement = "element"
)

type handleEntry struct {
	value  any
	parent string
}

// handles hands out string ids for the wrappers and element handles that
// keywords return, so that a test runner can store them in variables and pass
// them back. An id stays valid until its owner is closed.
type handles struct {
	seq     int
	entries map[string]handleEntry
}

func newHandles() *handles {
	return &handles{entries: make(map[string]handleEntry)}
}

// add registers v under a new id of the given kind. parent is the id of the
// handle v was produced from, or empty.
func (h *handles) add(kind string, v any, parent string) string {
	h.seq++
	id := fmt.Sprintf("%s-%d", kind, h.seq)
	h.entries[id] = handleEntry{value: v, parent: parent}
	return id
}

func (h *handles) get(id string) (any, bool) {
	e, ok := h.entries[id]
	return e.value, ok
}

// isID reports whether s has the shape of a handle id, known or not.
func isID(s string) bool {
	for _, k := range []string{kindContext, kindPage, kindElement} {
		if strings.HasPrefix(s, k+"-") {
			return true
		}
	}
	return false
}

// release forgets id and every handle produced from it.
func (h *handles) release(id string) {
	if _, ok := h.entries[id]; !ok {
		return
	}
	delete(h.entries, id)
	for cid, e := range h.entries {
		if e.parent == id {
			h.release(cid)
		}
	}
}

// releaseChildren forgets every handle produced from id. id itself stays
// registered, so that using a closed handle again reaches the engine.
func (h *handles) releaseChildren(id string) {
	for cid, e := range h.entries {
		if e.parent == id {
			h.release(cid)
		}
	}
}

// releaseChildrenOf forgets the handles produced from the ids registered
// for v.
func (h *handles) releaseChildrenOf(v any) {
	for id, e := range h.entries {
		if e.value == v {
			h.releaseChildren(id)
		}
	}
}

func (h *handles) clear() {
	h.entries = make(map[string]handleEntry)
}

func (h *handles) len() int { return len(h.entries) }
