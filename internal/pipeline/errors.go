package pipeline

import "errors"

var (
	// ErrStaleAnalysis is returned when a newer analysis started before this one finished
	ErrStaleAnalysis = errors.New("analysis superseded by a newer request")
	// ErrNoAnalysis is returned by session operations that need a completed analysis
	ErrNoAnalysis = errors.New("no analysis has been run")
)
