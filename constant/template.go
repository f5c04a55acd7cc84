// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Lua Plugin Function Identifiers - global functions a Lua plugin script may define.
const (
	DestinationsFn = "Destinations"
	ProcessorsFn   = "Processors"
)

// PluginExtension is the file extension of Lua plugin scripts.
const PluginExtension = ".lua"

// Placeholders understood by the output filename pattern.
const (
	PatternTitle  = "${title}"
	PatternYear   = "${YYYY}"
	PatternMonth  = "${MM}"
	PatternDay    = "${DD}"
	PatternHour   = "${hh}"
	PatternMinute = "${mm}"
	PatternSecond = "${ss}"
	PatternUser   = "${user}"
)
