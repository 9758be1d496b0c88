package model

// Chart geometry defaults
const (
	DefaultWidth  = 700
	DefaultHeight = 460
	DefaultMargin = 80
)

// DefaultTrailingCount is how many of the most recent points each series
// shows until the user picks another value.
const DefaultTrailingCount = 10

// Input columns
const (
	ColumnPlant  = "plant"
	ColumnBranch = "branch"
	ColumnCTime  = "ctime"
	ColumnMetric = "metric"
)
