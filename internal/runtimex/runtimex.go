// Package runtimex contains runtime extensions. This package is inspired to
// https://pkg.go.dev/github.com/m-lab/go/rtx, except that it's simpler.
package runtimex

import "fmt"

// PanicOnError calls panic() if err is not nil.
func PanicOnError(err error, message string) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", message, err))
	}
}

// Assert calls panic if assertion is false.
func Assert(assertion bool, message string) {
	if !assertion {
		panic(message)
	}
}

// Try0 calls [PanicOnError] if err is not nil.
func Try0(err error) {
	PanicOnError(err, "Try0")
}

// Try1 is like [Try0] but for functions returning one value and an error.
func Try1[T1 any](t1 T1, err error) T1 {
	Try0(err)
	return t1
}

// Try2 is like [Try1] but for functions returning two values and an error.
func Try2[T1, T2 any](t1 T1, t2 T2, err error) (T1, T2) {
	Try0(err)
	return t1, t2
}
