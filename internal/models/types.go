package models

// ReceiverKind is the value-or-reference kind of a containing type
type ReceiverKind int

const (
	PointerKind ReceiverKind = iota
	ValueKind
)

// String returns the string representation of the receiver kind
func (k ReceiverKind) String() string {
	switch k {
	case ValueKind:
		return "value"
	default:
		return "pointer"
	}
}

// ParseReceiverKind converts a configuration value to a ReceiverKind
func ParseReceiverKind(s string) ReceiverKind {
	if s == "value" {
		return ValueKind
	}
	return PointerKind
}

// MemberKind distinguishes the two declaration forms that can carry the marker
type MemberKind int

const (
	FieldMember MemberKind = iota
	AccessorMember
)

// String returns the string representation of the member kind
func (k MemberKind) String() string {
	switch k {
	case AccessorMember:
		return "accessor"
	default:
		return "field"
	}
}

// OperationKind distinguishes forwarded methods from forwarded properties
type OperationKind int

const (
	MethodOperation OperationKind = iota
	PropertyOperation
)

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
	ErrorTypeLoad
	ErrorTypeCollision
	ErrorTypeConfiguration
)
