package parser

const (
	// MarkerPrefix starts every comment the scanner hands to the marker parser
	MarkerPrefix = "//delegate::"

	// MarkerTo is the full marker recognised on fields and accessors
	MarkerTo = MarkerPrefix + "to"

	// Marker parameters
	ParamInline = "Inline"
	ParamPrefix = "Prefix"
)
