// Package ansi provides ANSI escape code constants for terminal output.
// All colored/styled terminal output should reference these constants to
// avoid duplication.
package ansi

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// ClearLine clears the entire current line. Used together with a carriage
// return to redraw in-place progress output.
const ClearLine = "\033[2K"
