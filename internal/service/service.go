// Package service holds the use cases behind the HTTP handlers: blob
// storage, format conversion, the PDF toolkit, record storage and payments.
// Every error returned here is an *apperr.Error.
package service

import (
	"bytes"
	"io"
	"strings"
)

// ConversionObserver receives one call per finished conversion.
// outcome is "converted", "passthrough" or the error kind.
type ConversionObserver interface {
	ObserveConversion(format, outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveConversion(string, string) {}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// scopeOf returns the middle segment of "<prefix>/<scope>/<name>".
func scopeOf(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}
