// Package compare decides equality between expected and observed values.
//
// The expected value's shape is inspected once to pick a comparison kind:
//   - Primitive: exact equality with numeric coercion and string fallback
//   - Pattern: regular expression match (compiled regexp or /re/ literal)
//   - Composite: recursive field-by-field walk of map-shaped values
//
// The composite walk is a minimal structural check (presence, primitive
// type agreement, recursion into nested objects), not a full schema
// validator. Callers needing ranges, string formats, or unions should use
// a JSON Schema validator instead.
package compare
