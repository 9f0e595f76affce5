package council

import (
	"errors"
)

var (
	// ErrEmptyBlueprint is returned when compiling a blueprint without nodes.
	ErrEmptyBlueprint = errors.New("blueprint has no nodes")

	// ErrInvalidEdgeReference is returned when an edge names a node id that
	// does not exist in the blueprint.
	ErrInvalidEdgeReference = errors.New("edge references unknown node")

	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrSessionNotFound is returned for resume/reject/state calls against a
	// run id with no checkpoint session.
	ErrSessionNotFound = errors.New("checkpoint session not found")

	// ErrNotPaused is returned for approval actions on a run that is not
	// currently suspended at a checkpoint.
	ErrNotPaused = errors.New("run is not paused")

	// ErrResumeConflict is returned when a second resume is issued while one
	// is already being applied to the same run.
	ErrResumeConflict = errors.New("a resume for this run is already in flight")

	// ErrRunRejected is how a traversal reports that the operator rejected
	// the run at a checkpoint.
	ErrRunRejected = errors.New("run rejected at checkpoint")
)
