package client

import "strconv"

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }

// formatScore renders a sorted-set score the way Redis expects on the
// wire: integral scores without a trailing ".0".
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func parseScore(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
