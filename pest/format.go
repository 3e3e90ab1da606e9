// Package pest marshals MARTHE model parameters and observations into the
// file formats consumed by the PEST/PEST++ suite: parameter files, template
// files, instruction files and the run configuration tying them together.
package pest

import (
	"fmt"
	"strconv"
)

// fixed-width field formats shared by every PEST artifact written here
const (
	FFMT = "%-20.10E " // float field
	IFMT = "%-10d "    // integer field
	SFMT = "%-20s "    // string field

	// simulated-value column window in extracted record files, used by
	// instruction files: a "yyyy-mm-dd\tvalue" line holds its value in
	// columns 12 through 21
	valStart = 12
	valEnd   = 21
)

func ffloat(v float64) string { return fmt.Sprintf(FFMT, v) }
func fstr(s string) string    { return fmt.Sprintf(SFMT, s) }

// obsName builds a zero-padded, one-based observation name from its location
// prefix.
func obsName(prefix string, n int) string {
	return fmt.Sprintf("%sn%04d", prefix, n)
}

func atof(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
