// Package ui provides assertion adapters for page elements.
//
// The Element interface is the read-only view of a DOM node that the
// caller's browser driver must satisfy. Each check builds a deferred
// observation so the element read happens only when the engine evaluates
// it, bounded by the engine's timeout.
//
// Failure context carries a short element descriptor (tag, id, class,
// truncated text), never the full DOM.
package ui
