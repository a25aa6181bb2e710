package controllers

import (
	"fmt"
	"strconv"
)

// parsePositiveInt parses query-string limits; zero and negatives are
// rejected so callers can fall back to "no limit".
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive")
	}
	return n, nil
}
