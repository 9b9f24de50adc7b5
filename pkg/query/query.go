// Package query parses list endpoint query parameters.
package query

import (
	"strconv"
	"strings"
)

// StringSlice splits a comma-separated query value, dropping blank entries.
// "world, country," yields ["world" "country"].
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// OptionalInt parses an optional integer value. A blank value yields nil
// without error.
func OptionalInt(val string) (*int, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
