package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Trailer kinds appended by refresh
const (
	TrailerSignedOff = "Signed-off-by"
	TrailerAcked     = "Acked-by"
)

var trailerLine = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*: \S`)

// AddTrailer appends "<kind>: Name <email>" to message unless an identical
// line is already present. A blank line separates the trailer from the body
// unless the last paragraph is already a trailer block.
func AddTrailer(message, kind string, sig Signature) string {
	line := fmt.Sprintf("%s: %s <%s>", kind, sig.Name, sig.Email)

	for _, l := range strings.Split(message, "\n") {
		if strings.TrimSpace(l) == line {
			return message
		}
	}

	body := strings.TrimRight(message, " \t\n")
	if body == "" {
		return line + "\n"
	}
	if endsWithTrailers(body) {
		return body + "\n" + line + "\n"
	}
	return body + "\n\n" + line + "\n"
}

// endsWithTrailers reports whether every line of the last paragraph of body
// looks like a trailer. A single-paragraph message is never a trailer block.
func endsWithTrailers(body string) bool {
	i := strings.LastIndex(body, "\n\n")
	if i < 0 {
		return false
	}
	for _, l := range strings.Split(body[i+2:], "\n") {
		if !trailerLine.MatchString(l) {
			return false
		}
	}
	return true
}
