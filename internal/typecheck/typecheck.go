// Package typecheck provides a reflection-based sanity check used by the
// container facades. A container's own MarkMembers only forwards mark
// calls to elements it stores directly as a managed reference; a struct
// element that merely embeds or contains a managed reference somewhere
// inside it will pass through a container untraced, which is exactly the
// "non-managed elements are ignored during trace" rule applied somewhere
// the caller probably did not intend. This package lets the container
// constructors warn when that footgun is likely, the same way the
// teacher's object store statically forbids pointer-containing payloads
// for a different reason (keeping the host GC blind to off-heap data).
package typecheck

import "reflect"

// markMembersMethod is the name of the capability mixin's trace hook. A
// type is detected as managed by having a method of this name at all,
// rather than by matching its exact signature against an interface - the
// real capability mixin's hook takes the concrete collector type as its
// argument, which this package cannot name without importing the root
// module (which itself depends on nothing here), so duck-typing on the
// method name is the only dependency-free way to recognise it.
const markMembersMethod = "MarkMembers"

func hasMarkMembers(t reflect.Type) bool {
	_, ok := t.MethodByName(markMembersMethod)
	return ok
}

// asObjectMethod is the name of the method a wrapper type uses to forward
// a managed reference to a container's trace callback without the
// container needing to know the wrapped type (Ptr[T].AsObject in the root
// module). A struct carrying this method is, by construction, already
// handled correctly wherever it appears - this package stops descending
// into it rather than also inspecting its internal fields, which would
// otherwise rediscover the very pointer the wrapper exists to manage and
// misreport it as a hidden reference.
const asObjectMethod = "AsObject"

func hasAsObject(t reflect.Type) bool {
	_, ok := t.MethodByName(asObjectMethod)
	return ok
}

// ContainsNestedManagedReference reports whether t (or something reachable
// by value through its fields/elements) carries the managed-object
// capability's trace hook, without t itself being a pointer to an object
// implementing it. A t that is itself such a pointer (a container of *Foo
// directly) is not reported: its reference sits at the element's top
// level rather than nested inside it. The facades forward Mark only to
// elements exposing AsObject (Ptr[T]), so a bare *Foo element is not
// traced by them either, and this check does not report that case. A
// container of "struct{ Inner *Foo }" is reported: it hides the reference
// one level too deep for the facade to see.
func ContainsNestedManagedReference(t reflect.Type) bool {
	return search(t, true)
}

func search(t reflect.Type, topLevel bool) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Pointer:
		if !topLevel && hasMarkMembers(t) {
			return true
		}
		return search(t.Elem(), false)
	case reflect.Interface:
		return false
	case reflect.Array, reflect.Slice:
		return search(t.Elem(), false)
	case reflect.Struct:
		if hasAsObject(t) {
			return false
		}
		for i := 0; i < t.NumField(); i++ {
			if search(t.Field(i).Type, false) {
				return true
			}
		}
		return false
	case reflect.Map:
		return search(t.Key(), false) || search(t.Elem(), false)
	default:
		return false
	}
}
