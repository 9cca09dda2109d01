package ui

import "cth/internal/domain"

// Viewer displays stored failures in an interactive TUI
type Viewer interface {
	View(report *domain.RunReport) error
}
