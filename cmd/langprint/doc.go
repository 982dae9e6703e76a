// Package main hosts the langprint CLI: the HTTP API server plus commands that
// build a profile from a file, run a collection over a reference page and its
// translations, and inspect or export the stored table.
package main
