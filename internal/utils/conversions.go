package utils

import "strings"

// ToStringSlice keeps the non blank string elements of a decoded JSON array.
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		stringSlice = append(stringSlice, s)
	}
	return stringSlice
}
