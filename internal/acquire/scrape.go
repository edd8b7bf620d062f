package acquire

import (
	"regexp"
	"strconv"
	"strings"
)

// percentPattern matches percentage values like "85%", "92.5 %".
var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// ScrapePercentage extracts a coverage percentage from test runner console
// output. Lines mentioning "total" or "coverage" take priority over bare
// percentages, so incidental values (progress counters, flaky-test rates)
// don't win over a summary line. The value is floored to an integer and
// clamped to [0,100].
func ScrapePercentage(output string) (int, bool) {
	if output == "" {
		return 0, false
	}

	firstSeen := -1
	for _, line := range strings.Split(output, "\n") {
		match := percentPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		pct := clampPercent(int(value))

		lower := strings.ToLower(line)
		if strings.Contains(lower, "total") || strings.Contains(lower, "coverage") {
			return pct, true
		}
		if firstSeen < 0 {
			firstSeen = pct
		}
	}

	if firstSeen >= 0 {
		return firstSeen, true
	}
	return 0, false
}

func clampPercent(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
