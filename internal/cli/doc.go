// Package cli implements the comanda command line: compile and
// validate request files, run them against a database, and compute
// bought-together product pairs. Request files are YAML or JSON and
// are checked against an embedded CUE grammar before compilation.
package cli
