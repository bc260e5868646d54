package domain

// ConferenceField is a filterable or sortable conference property.
type ConferenceField string

const (
	FieldCity         ConferenceField = "city"
	FieldTopics       ConferenceField = "topics"
	FieldMonth        ConferenceField = "month"
	FieldMaxAttendees ConferenceField = "maxAttendees"
	FieldName         ConferenceField = "name"
)

// IsNumeric reports whether the field compares as an integer.
func (f ConferenceField) IsNumeric() bool {
	return f == FieldMonth || f == FieldMaxAttendees
}

// Operator is a comparison operator in a conference filter.
type Operator string

const (
	OpEQ   Operator = "="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpNE   Operator = "!="
)

// IsInequality reports whether op is anything other than equality.
func (op Operator) IsInequality() bool {
	return op != OpEQ
}

// Filter is a compiled conference filter. Value is an int for numeric fields and a string otherwise.
type Filter struct {
	Field ConferenceField
	Op    Operator
	Value any
}

// ConferenceQuery is an executable, ordered conference query. Filters combine with AND.
type ConferenceQuery struct {
	Filters []Filter
	Order   []ConferenceField
}
