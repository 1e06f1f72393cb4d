package graph

import "errors"

var (
	// ErrUnknownNode is returned when a query references a node that was never inserted
	ErrUnknownNode = errors.New("unknown node")
	// ErrInvalidWeight is returned when an edge is added with a non-positive weight
	ErrInvalidWeight = errors.New("edge weight must be positive")
	// ErrEmptyGraph is returned when an algorithm requires a non-empty graph
	ErrEmptyGraph = errors.New("graph has no nodes")
)
