// Package statereset deletes the state a previous run of the application
// server left behind in a scenario fixture directory: the cached chat files
// directory and the local SQLite database. The server recreates both on
// startup, so deleting them gives every run a clean slate.
package statereset
