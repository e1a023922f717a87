package inference

import (
	"regexp"
	"strings"
)

var toolNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)+$`)

// InferCommand guesses the intended subcommand when the first argument is
// not one of the known ones. A snake_case word is treated as a tool call so
// "notegate create_note ..." works without spelling out "call".
func InferCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	first := args[0]
	if strings.HasPrefix(first, "-") {
		return "", args
	}

	if toolNameRegex.MatchString(first) {
		return "call", args
	}

	return "", args
}
