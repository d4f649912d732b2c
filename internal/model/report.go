package model

import "time"

// Progress is one observable step of a uniquification run. Runs on large
// minified inputs can take minutes to hours, so the engine emits these
// continuously.
type Progress struct {
	// Offset is the byte position the scan has reached in the current
	// buffer version; Total is that version's length.
	Offset int
	Total  int
	// Renamed counts successfully renamed bindings so far.
	Renamed int
	Elapsed time.Duration
}

// Ambiguity records a synthetic name that accumulated two or more distinct
// replacement candidates. Such names are never renamed, only reported.
type Ambiguity struct {
	Name       string
	Candidates []string
}

// FileResult summarizes the pipeline outcome for one input.
type FileResult struct {
	Source string
	Output string
	// Uniquified counts bindings renamed by the uniquification engine;
	// SmartRenamed counts synthetic names the heuristic renamer improved.
	Uniquified   int
	SmartRenamed int
	Ambiguous    []Ambiguity
	Skipped      int
	Err          error
}
