package model

// Document is a schema-agnostic shipment record. Field names come verbatim
// from the source file's column headers; values are string, float64 or
// time.Time depending on the inferred column role.
type Document map[string]interface{}

// FieldRole is the inferred semantic category of a data column.
type FieldRole string

const (
	RoleNumeric    FieldRole = "numeric"
	RoleDate       FieldRole = "date"
	RoleIdentifier FieldRole = "identifier"
	RoleText       FieldRole = "text"
)

// Field pairs a discovered column name with its inferred role.
// The role is advisory: it steers default cost/date field selection during
// query translation, nothing is stored with the documents.
type Field struct {
	Name string    `json:"name"`
	Role FieldRole `json:"role"`
}

// FieldNames returns the names in declaration order.
func FieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
