// Package batch runs a list of work items in fixed-size rounds of concurrent
// workers.
//
// Each round launches one goroutine per item, joins them all, then drains
// exactly one result per item before the next round is formed, so no more
// than Concurrency workers are ever alive. Every worker delivers a result:
// a panicking work function is converted into its fallback result.
//
// batch never imports app, cli or any adapter package; keep it domain-free.
package batch
