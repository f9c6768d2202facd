// Package capture collects best-effort diagnostic artifacts for failed
// assertions: screenshots from a caller-supplied capability and response
// dumps written to an artifact directory.
//
// Capture never fails the assertion that requested it. Every attempt
// yields a Result that is either Ok with an artifact path or Unavailable
// with a reason; errors from the underlying capability are folded into
// the Unavailable reason, not propagated.
package capture
