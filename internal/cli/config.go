package cli

import (
	"strings"
	"time"
)

// Config holds configuration for one summary run.
type Config struct {
	Athletes1 string        // First athlete CSV, "-" reads stdin
	Athletes2 string        // Second athlete CSV, "-" reads stdin
	Regions   string        // NOC to region lookup CSV, "-" reads stdin
	BaseURL   string        // When set, query a running service instead of files
	Sports    List          // Selected sports
	RegionSel List          // Selected regions
	Medals    List          // Selected medals
	TopN      int           // Size of the top countries widget
	Raw       int           // Number of filtered records to print, 0 for none
	Policy    string        // Duplicate region code policy
	Timeout   time.Duration // HTTP request timeout for BaseURL
}

// List is a repeatable string flag. Values are kept verbatim so region
// names containing commas survive.
type List []string

// String implements flag.Value.
func (l *List) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, "|")
}

// Set implements flag.Value.
func (l *List) Set(v string) error {
	*l = append(*l, v)
	return nil
}
