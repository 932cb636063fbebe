package depmgr

import (
	"fmt"
	"strings"
)

// Report summarizes a materialized dependency cache.
type Report struct {
	// Partitions are the cache base paths, sorted.
	Partitions []string
	// Rules is the number of prebuilt rules written.
	Rules int
	// Changing are the cache names of changing dependencies that were allowed.
	Changing []string
	// Fingerprint identifies the cache tree content, including link targets.
	Fingerprint string
}

// String renders the report for humans.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dependency cache: %d partitions, %d prebuilt rules\n", len(r.Partitions), r.Rules)
	for _, p := range r.Partitions {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	if len(r.Changing) > 0 {
		b.WriteString("changing dependencies:\n")
		for _, c := range r.Changing {
			fmt.Fprintf(&b, "  %s\n", c)
		}
	}
	return b.String()
}
