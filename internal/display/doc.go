// Package display formats user-facing warnings for the msutils CLI.
//
// A Warning has a title and optional message, item list and suggestion:
//
//	warning := display.NoStoresWarning(roots)
//	warning.Display(os.Stderr)
//
// Output is yellow when color output is enabled (see github.com/fatih/color)
// and plain otherwise. All functions accept io.Writer for testability.
package display
