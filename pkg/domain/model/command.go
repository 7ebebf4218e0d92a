package model

// RunOptions controls a single external command invocation
type RunOptions struct {
	// Silent suppresses echoing the live output; it is still captured.
	Silent bool
	// Env holds extra KEY=VALUE entries appended to the process environment.
	Env []string
}
