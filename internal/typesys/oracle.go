package typesys

// Oracle is the type-system collaborator the generator consults for all
// type identity and metadata.
type Oracle interface {
	// ResolveType finds a type by its canonical identity string.
	ResolveType(name string) (*Type, bool)

	// IsAssignableTo reports whether a value of t may be assigned to target.
	IsAssignableTo(t, target *Type) bool

	// DeclaredMembers returns the members declared directly on t. For
	// pointers to named types the pointee's members are returned. Types
	// without declarations yield empty Members.
	DeclaredMembers(t *Type) Members
}
