// fastview implements a builder pattern to implement simple views:
// given an input data format, apply a transformation to a view-model,
// and then multiplex that data to one or more views whose element updates
// are pushed to web clients over websocket.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to its attributes/content.
type EleUpdate struct {
	// The id by which to find the element
	EleId string
	// Op keys are attrib keys or one of the reserved keys, values are the strings to which these
	// are set. Example: ('d','M0 0L1 1') means 'set attribute d'. Reserved keys:
	// 'textContent' sets ele.textContent, 'value' sets ele.value on form inputs, and
	// 'disabled' sets ele.disabled from "true"/"false".
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// Reserved op keys.
const (
	TextContent = "textContent"
	Value       = "value"
	Disabled    = "disabled"
)

// ViewComponent implements server side views: Parse to add their initial form to the page
// template and Updates to obtain the chan by which ele-updates are notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	// Parse adds the view-component's template definition to the passed parent template, thus
	// inheriting its func-map, and returns the name under which it was defined.
	Parse(*template.Template) (string, error)
}

// MergeUpdates coalesces two update batches: ops from newer replace those of older for
// the same element and key. Elements keep the order in which they first appeared.
func MergeUpdates(older, newer []EleUpdate) []EleUpdate {
	merged := make([]EleUpdate, 0, len(older)+len(newer))
	index := map[string]int{}
	for _, batch := range [][]EleUpdate{older, newer} {
		for _, update := range batch {
			i, ok := index[update.EleId]
			if !ok {
				index[update.EleId] = len(merged)
				merged = append(merged, EleUpdate{EleId: update.EleId, Ops: append([]Op(nil), update.Ops...)})
				continue
			}
			merged[i].Ops = mergeOps(merged[i].Ops, update.Ops)
		}
	}
	return merged
}

func mergeOps(older, newer []Op) []Op {
	for _, op := range newer {
		replaced := false
		for i := range older {
			if older[i].Key == op.Key {
				older[i].Value = op.Value
				replaced = true
				break
			}
		}
		if !replaced {
			older = append(older, op)
		}
	}
	return older
}
