package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	// alphanumeric keeps ids safe in cookies and URLs without escaping.
	alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func getSize(l ...int) int {
	if len(l) > 0 && l[0] > 0 {
		return l[0]
	}
	return defaultSize
}

// Must generates an id from the default nanoid alphabet.
func Must(l ...int) string {
	return gonanoid.Must(getSize(l...))
}

// String generates an alphanumeric id.
func String(l ...int) string {
	return gonanoid.MustGenerate(alphanumeric, getSize(l...))
}
