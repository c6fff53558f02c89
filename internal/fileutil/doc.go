// Package fileutil holds the small filesystem primitives appenv needs:
// creating log and lock directories, checking whether fixture paths exist, and
// deleting persisted state so that a missing target is never an error.
package fileutil
