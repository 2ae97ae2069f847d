package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the Beacon API and it's
	associated services.
*/
type AccessTier string

type IncludeResponsesMode string

type ComparisonOperator string
