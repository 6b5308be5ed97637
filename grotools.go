// Package grotools is a collection of tools for comparing GRO-seq peaks and
// genomic regions. Each tool lives in its own package and is run through the
// grotools command in cmd/grotools.
package grotools

// Version is reported by every sub-command.
const Version = "0.1.0"
