package kcl

import "fmt"

// ParseError is raised on an unexpected or missing token. Its message embeds
// `position N` where N is the index of the offending token; the analysis
// store recovers a source range from it.
type ParseError struct {
	Msg        string
	TokenIndex int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.TokenIndex)
}
