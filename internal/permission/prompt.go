package permission

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
)

const boxWidth = 67

// promptUser draws a boxed permission prompt on stderr and reads a
// single line from stdin, ported from context.rs::prompt_user. An empty
// response (bare Enter) defaults to allow, matching the original.
func promptUser(operation, resource string) (bool, error) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "┌"+strings.Repeat("─", boxWidth)+"┐")
	fmt.Fprintf(os.Stderr, "│ %-*s │\n", boxWidth-2, "Permission Request")
	fmt.Fprintln(os.Stderr, "├"+strings.Repeat("─", boxWidth)+"┤")
	fmt.Fprintf(os.Stderr, "│ Operation: %-*s │\n", boxWidth-13, operation)
	if resource != "" {
		fmt.Fprintf(os.Stderr, "│ Resource:  %-*s │\n", boxWidth-13, truncateResource(resource, boxWidth-13))
	}
	fmt.Fprintln(os.Stderr, "├"+strings.Repeat("─", boxWidth)+"┤")
	fmt.Fprintf(os.Stderr, "│ %-*s │\n", boxWidth-2, "[y] Allow   [n] Deny")
	fmt.Fprintln(os.Stderr, "└"+strings.Repeat("─", boxWidth)+"┘")
	fmt.Fprint(os.Stderr, "Choice: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, berrors.NewIoError("stdin", err.Error())
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes" || response == "", nil
}

func truncateResource(resource string, width int) string {
	if len(resource) <= width {
		return resource
	}
	keep := width - 3
	if keep < 0 {
		keep = 0
	}
	return "..." + resource[len(resource)-keep:]
}
