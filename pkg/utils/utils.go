package utils

import (
	"context"
	"log"
	"runtime/debug"
	"strings"
	"unicode/utf8"
)

// GoSafe runs fn in a goroutine and recovers from panics so a single
// misbehaving task cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive.
func ShouldContinue(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// ContainsString reports whether s is present in list.
func ContainsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ToPointer returns a pointer to v.
func ToPointer[T any](v T) *T {
	return &v
}

// CleanToValidUTF8 strips invalid UTF-8 sequences and NUL bytes, which
// Postgres text columns reject.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}
