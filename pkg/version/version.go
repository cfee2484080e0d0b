package version

import "fmt"

// SweeperVersion is the release the binary was built from. It is set
// at link time.
var SweeperVersion string

// GitCommit is the commit the binary was built from. It is set at link
// time.
var GitCommit string

// String returns a pretty string concatenation of SweeperVersion and
// GitCommit.
func String() string {
	return fmt.Sprintf("sweeper version: %s\ngit commit:      %s\n", orUnknown(SweeperVersion), orUnknown(GitCommit))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
