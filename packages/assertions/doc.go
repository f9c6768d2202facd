// Package assertions is the core evaluation and failure-collection
// engine for softcheck.
//
// An Engine evaluates named conditions against lazily observed values,
// classifies each as pass or fail, and either raises immediately (hard
// mode) or defers the failure into its session (soft mode) for aggregate
// reporting at the end of the test.
//
// Each logical test case must own its own Engine; New returns a fresh
// engine and session pair. Sharing one engine across tests leaks soft
// failures between them — call Clear between tests if an instance is
// reused.
package assertions
