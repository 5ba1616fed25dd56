package ranking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var reDurationPart = regexp.MustCompile(`(\d+)\s*(h|min)`)

// ParseDurationMinutes sums the "<N> h" and "<N> min" components of a
// human-readable duration. Missing units count as zero, so "45min" is 45,
// "1h" is 60 and "2h 15min" is 135. Text with no component yields 0.
func ParseDurationMinutes(text string) int {
	total := 0
	for _, m := range reDurationPart.FindAllStringSubmatch(strings.ToLower(text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] == "h" {
			total += n * 60
		} else {
			total += n
		}
	}
	return total
}

// FormatDuration renders d the way the distance service does in Spanish,
// rounded to whole minutes: "45 min", "1 h", "2 h 15 min".
func FormatDuration(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	h, m := mins/60, mins%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
