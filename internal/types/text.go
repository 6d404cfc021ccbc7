package types

// TextBlob is a flat normalized text built from an ordered list of fields.
type TextBlob string

// String returns the blob as a plain string.
func (t TextBlob) String() string {
	return string(t)
}

// Field is one named source value. A nil Value means the field was not supplied.
type Field struct {
	Name  string
	Value *string
}

// F builds a supplied field.
func F(name, value string) Field {
	return Field{Name: name, Value: &value}
}

// Missing builds an unsupplied field.
func Missing(name string) Field {
	return Field{Name: name}
}
