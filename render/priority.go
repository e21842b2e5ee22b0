package render

// Priority determines layer draw order. Lower values draw first
type Priority int

const (
	PriorityShading Priority = iota
	PriorityGrid
	PriorityObserver
	PrioritySun
	PriorityUI
)
