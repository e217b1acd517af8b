package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var stdin = bufio.NewReader(os.Stdin)

// ScanBool asks a yes/no question. An empty answer selects defaultValue.
func ScanBool(msg string, defaultValue bool) bool {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", msg, hint)

	switch strings.ToLower(Line()) {
	case "":
		return defaultValue
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Text asks for a value unless current is already set.
func Text(msg, current string) string {
	if current != "" {
		return current
	}
	fmt.Printf("%s: ", msg)
	return Line()
}

// Line reads one trimmed line from stdin.
func Line() string {
	r, _ := stdin.ReadString('\n')
	return strings.TrimSpace(r)
}
