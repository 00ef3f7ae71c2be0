package formatter

import "fmt"

// FormatMinutes renders a minute count as "1h 30m" / "45m".
func FormatMinutes(min int) string {
	if min >= 60 {
		if min%60 == 0 {
			return fmt.Sprintf("%dh", min/60)
		}
		return fmt.Sprintf("%dh %dm", min/60, min%60)
	}
	return fmt.Sprintf("%dm", min)
}

// Count pluralizes a noun with its count: "1 record", "3 records".
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
