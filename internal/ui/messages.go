package ui

import "stocksearch/internal/search"

// stateMsg carries a new session snapshot
type stateMsg struct {
	state search.State
}

// sessionClosedMsg signals the session stopped
type sessionClosedMsg struct{}

// detailPagerMsg contains the result of a detail pager command
type detailPagerMsg struct {
	symbol string
	err    error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
