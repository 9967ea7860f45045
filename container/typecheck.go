package container

import (
	"log"
	"reflect"
	"sync"

	"github.com/lutze-go/lutze/internal/typecheck"
)

// warnedTypes remembers which element types have already triggered
// warnNestedManagedReference, so a Set/Map/Vector instantiated many times
// for the same T (the common case) logs at most once per process rather
// than once per allocation.
var (
	warnedTypesMu sync.Mutex
	warnedTypes   = map[reflect.Type]bool{}
)

// warnNestedManagedReference logs once per element type T if T hides a
// managed reference somewhere below its top level - a struct field, a map
// key, a slice element - where MarkMembers' per-element forwarding cannot
// reach it. A facade storing Ptr[U] directly is the supported pattern and
// is never flagged; this only catches the footgun of wrapping a managed
// reference inside a plain struct and handing that struct to a container.
func warnNestedManagedReference[T any]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if !typecheck.ContainsNestedManagedReference(t) {
		return
	}

	warnedTypesMu.Lock()
	already := warnedTypes[t]
	warnedTypes[t] = true
	warnedTypesMu.Unlock()

	if !already {
		log.Printf("lutze/container: element type %s nests a managed reference inside a plain field; "+
			"MarkMembers only forwards elements stored directly as lutze.Ptr, so this reference will not "+
			"be traced and may be collected while still referenced", t)
	}
}
