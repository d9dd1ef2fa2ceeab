package class

import "strings"

// ClassAccessFlags is the access_flags bitmask of a class.
type ClassAccessFlags uint16

// Contains reports whether every bit in other is set.
func (f ClassAccessFlags) Contains(other ClassAccessFlags) bool { return f&other == other }

// Union returns the flags with every bit of other set.
func (f ClassAccessFlags) Union(other ClassAccessFlags) ClassAccessFlags { return f | other }

// Intersection returns the bits present in both flag sets.
func (f ClassAccessFlags) Intersection(other ClassAccessFlags) ClassAccessFlags { return f & other }

// Names returns the set ACC_* flag names in JVMS order.
func (f ClassAccessFlags) Names() []string {
	var names []string
	for _, e := range classFlagNames {
		if f.Contains(e.bit) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers renders the flags as Java source modifiers plus the kind
// keyword, e.g. "public final class" or "public interface".
func (f ClassAccessFlags) Modifiers() string {
	var mods []string
	if f.Contains(ClassPublic) {
		mods = append(mods, "public")
	}
	if f.Contains(ClassFinal) {
		mods = append(mods, "final")
	}
	if f.Contains(ClassAbstract) {
		mods = append(mods, "abstract")
	}
	switch {
	case f.Contains(ClassInterface):
		mods = append(mods, "interface")
	case f.Contains(ClassEnum):
		mods = append(mods, "enum")
	case f.Contains(ClassModule):
		mods = append(mods, "module")
	default:
		mods = append(mods, "class")
	}
	return strings.Join(mods, " ")
}

var classFlagNames = []struct {
	name string
	bit  ClassAccessFlags
}{
	{"ACC_PUBLIC", ClassPublic},
	{"ACC_FINAL", ClassFinal},
	{"ACC_SUPER", ClassSuper},
	{"ACC_INTERFACE", ClassInterface},
	{"ACC_ABSTRACT", ClassAbstract},
	{"ACC_SYNTHETIC", ClassSynthetic},
	{"ACC_ANNOTATION", ClassAnnotation},
	{"ACC_ENUM", ClassEnum},
	{"ACC_MODULE", ClassModule},
}

// FieldAccessFlags is the access_flags bitmask of a field.
type FieldAccessFlags uint16

// Contains reports whether every bit in other is set.
func (f FieldAccessFlags) Contains(other FieldAccessFlags) bool { return f&other == other }

// Union returns the flags with every bit of other set.
func (f FieldAccessFlags) Union(other FieldAccessFlags) FieldAccessFlags { return f | other }

// Intersection returns the bits present in both flag sets.
func (f FieldAccessFlags) Intersection(other FieldAccessFlags) FieldAccessFlags { return f & other }

// Names returns the set ACC_* flag names in JVMS order.
func (f FieldAccessFlags) Names() []string {
	var names []string
	for _, e := range fieldFlagNames {
		if f.Contains(e.bit) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers renders the flags as Java source modifiers.
func (f FieldAccessFlags) Modifiers() string {
	var mods []string
	for _, e := range fieldModifierNames {
		if f.Contains(e.bit) {
			mods = append(mods, e.name)
		}
	}
	return strings.Join(mods, " ")
}

var fieldFlagNames = []struct {
	name string
	bit  FieldAccessFlags
}{
	{"ACC_PUBLIC", FieldPublic},
	{"ACC_PRIVATE", FieldPrivate},
	{"ACC_PROTECTED", FieldProtected},
	{"ACC_STATIC", FieldStatic},
	{"ACC_FINAL", FieldFinal},
	{"ACC_VOLATILE", FieldVolatile},
	{"ACC_TRANSIENT", FieldTransient},
	{"ACC_SYNTHETIC", FieldSynthetic},
	{"ACC_ENUM", FieldEnum},
}

var fieldModifierNames = []struct {
	name string
	bit  FieldAccessFlags
}{
	{"public", FieldPublic},
	{"private", FieldPrivate},
	{"protected", FieldProtected},
	{"static", FieldStatic},
	{"final", FieldFinal},
	{"volatile", FieldVolatile},
	{"transient", FieldTransient},
	{"enum", FieldEnum},
}

// MethodAccessFlags is the access_flags bitmask of a method.
type MethodAccessFlags uint16

// Contains reports whether every bit in other is set.
func (f MethodAccessFlags) Contains(other MethodAccessFlags) bool { return f&other == other }

// Union returns the flags with every bit of other set.
func (f MethodAccessFlags) Union(other MethodAccessFlags) MethodAccessFlags { return f | other }

// Intersection returns the bits present in both flag sets.
func (f MethodAccessFlags) Intersection(other MethodAccessFlags) MethodAccessFlags {
	return f & other
}

// Names returns the set ACC_* flag names in JVMS order.
func (f MethodAccessFlags) Names() []string {
	var names []string
	for _, e := range methodFlagNames {
		if f.Contains(e.bit) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers renders the flags as Java source modifiers.
func (f MethodAccessFlags) Modifiers() string {
	var mods []string
	for _, e := range methodModifierNames {
		if f.Contains(e.bit) {
			mods = append(mods, e.name)
		}
	}
	return strings.Join(mods, " ")
}

var methodFlagNames = []struct {
	name string
	bit  MethodAccessFlags
}{
	{"ACC_PUBLIC", MethodPublic},
	{"ACC_PRIVATE", MethodPrivate},
	{"ACC_PROTECTED", MethodProtected},
	{"ACC_STATIC", MethodStatic},
	{"ACC_FINAL", MethodFinal},
	{"ACC_SYNCHRONIZED", MethodSynchronized},
	{"ACC_BRIDGE", MethodBridge},
	{"ACC_VARARGS", MethodVarargs},
	{"ACC_NATIVE", MethodNative},
	{"ACC_ABSTRACT", MethodAbstract},
	{"ACC_STRICT", MethodStrict},
	{"ACC_SYNTHETIC", MethodSynthetic},
}

var methodModifierNames = []struct {
	name string
	bit  MethodAccessFlags
}{
	{"public", MethodPublic},
	{"private", MethodPrivate},
	{"protected", MethodProtected},
	{"static", MethodStatic},
	{"final", MethodFinal},
	{"synchronized", MethodSynchronized},
	{"native", MethodNative},
	{"abstract", MethodAbstract},
	{"strictfp", MethodStrict},
}
