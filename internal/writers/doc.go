// Package writers opens output destinations. Files are created exclusively
// so an existing output is never overwritten, and a downstream reader that
// closes stdout early is distinguishable from a real write failure.
package writers
