// Package query compiles symbolic conference filters into an executable, ordered query.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

var fields = map[string]domain.ConferenceField{
	"CITY":          domain.FieldCity,
	"TOPIC":         domain.FieldTopics,
	"MONTH":         domain.FieldMonth,
	"MAX_ATTENDEES": domain.FieldMaxAttendees,
}

var operators = map[string]domain.Operator{
	"EQ":   domain.OpEQ,
	"GT":   domain.OpGT,
	"GTEQ": domain.OpGTEQ,
	"LT":   domain.OpLT,
	"LTEQ": domain.OpLTEQ,
	"NE":   domain.OpNE,
}

// Compile validates specs and returns a conjunctive query in the order supplied.
//
// At most one distinct field may use a non-equality operator. When one does, results are
// ordered by that field and then by name; otherwise by name alone. Numeric fields have
// their values coerced to int. Every rejection wraps domain.ErrInvalidInput.
func Compile(specs []domain.ConferenceQueryForm) (domain.ConferenceQuery, error) {
	q := domain.ConferenceQuery{Filters: make([]domain.Filter, 0, len(specs))}
	var inequality domain.ConferenceField
	for i, spec := range specs {
		f, err := compileOne(spec)
		if err != nil {
			return domain.ConferenceQuery{}, fmt.Errorf("filter %d: %w", i, err)
		}
		if f.Op.IsInequality() {
			if inequality != "" && inequality != f.Field {
				return domain.ConferenceQuery{}, fmt.Errorf(
					"%w: inequality filter is allowed on only one field (have %s and %s)",
					domain.ErrInvalidInput, inequality, f.Field)
			}
			inequality = f.Field
		}
		q.Filters = append(q.Filters, f)
	}
	if inequality != "" {
		q.Order = []domain.ConferenceField{inequality, domain.FieldName}
	} else {
		q.Order = []domain.ConferenceField{domain.FieldName}
	}
	return q, nil
}

func compileOne(spec domain.ConferenceQueryForm) (domain.Filter, error) {
	field, ok := fields[strings.ToUpper(strings.TrimSpace(spec.Field))]
	if !ok {
		return domain.Filter{}, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, spec.Field)
	}
	op, ok := operators[strings.ToUpper(strings.TrimSpace(spec.Operator))]
	if !ok {
		return domain.Filter{}, fmt.Errorf("%w: unknown filter operator %q", domain.ErrInvalidInput, spec.Operator)
	}
	f := domain.Filter{Field: field, Op: op, Value: spec.Value}
	if field.IsNumeric() {
		n, err := strconv.Atoi(strings.TrimSpace(spec.Value))
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %s requires an integer value, got %q", domain.ErrInvalidInput, field, spec.Value)
		}
		f.Value = n
	}
	return f, nil
}
