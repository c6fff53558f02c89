// Package sentinel defines Error, a string-backed error type that lets
// appenv declare its sentinel errors as constants.
//
// Values built with errors.New live in variables and can be reassigned by any
// importer. An Error is a plain string, so it can sit in a const block and
// still be matched with errors.Is through %w chains.
package sentinel
