// Package board projects the batch table into a kanban view: one column per
// pipeline status in canonical order, plus the drag-and-drop move rules that
// relocate a batch between columns.
package board
