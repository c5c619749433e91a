package types

// FieldType represents the input type of a form field
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeEmail  FieldType = "email"
	FieldTypeNumber FieldType = "number"
	FieldTypePrice  FieldType = "price"
	FieldTypeDate   FieldType = "date"
	FieldTypeTime   FieldType = "time"
	FieldTypeEnum   FieldType = "enum"
	FieldTypeImage  FieldType = "image"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypePrice,
		FieldTypeDate,
		FieldTypeTime,
		FieldTypeEnum,
		FieldTypeImage,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypePrice,
		FieldTypeDate,
		FieldTypeTime,
		FieldTypeEnum,
		FieldTypeImage:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of this type are parsed as numbers
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeNumber || t == FieldTypePrice
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}
