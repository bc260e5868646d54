package domain

// EnumTable maps an enum's variants to and from their canonical string form.
// Unrecognized input resolves to the table's fallback variant.
type EnumTable[T ~string] struct {
	fallback T
	values   []T
	index    map[string]T
}

// NewEnumTable builds a table over values. fallback is included automatically.
func NewEnumTable[T ~string](fallback T, values ...T) EnumTable[T] {
	t := EnumTable[T]{
		fallback: fallback,
		values:   append([]T{fallback}, values...),
		index:    make(map[string]T, len(values)+1),
	}
	for _, v := range t.values {
		t.index[string(v)] = v
	}
	return t
}

// Parse returns the variant whose canonical form is s, or the fallback.
func (t EnumTable[T]) Parse(s string) T {
	if v, ok := t.index[s]; ok {
		return v
	}
	return t.fallback
}

// Lookup returns the variant for s and whether it was recognized.
func (t EnumTable[T]) Lookup(s string) (T, bool) {
	v, ok := t.index[s]
	return v, ok
}

// Fallback returns the variant used for unrecognized input.
func (t EnumTable[T]) Fallback() T { return t.fallback }

// Values returns every variant, fallback first.
func (t EnumTable[T]) Values() []T {
	return append([]T(nil), t.values...)
}

// TeeShirtSize is a profile's t-shirt size.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var TeeShirtSizes = NewEnumTable(TeeShirtNotSpecified,
	TeeShirtXSM, TeeShirtXSW, TeeShirtSM, TeeShirtSW, TeeShirtMM, TeeShirtMW,
	TeeShirtLM, TeeShirtLW, TeeShirtXLM, TeeShirtXLW, TeeShirtXXLM, TeeShirtXXLW,
	TeeShirtXXXLM, TeeShirtXXXLW,
)

// SessionType classifies a conference session.
type SessionType string

const (
	SessionTypeNotSpecified  SessionType = "NOT_SPECIFIED"
	SessionTypeWorkshop      SessionType = "workshop"
	SessionTypeLecture       SessionType = "lecture"
	SessionTypeDemonstration SessionType = "demonstration"
	SessionTypeParty         SessionType = "party"
)

var SessionTypes = NewEnumTable(SessionTypeNotSpecified,
	SessionTypeWorkshop, SessionTypeLecture, SessionTypeDemonstration, SessionTypeParty,
)

// ReviewRating is the star rating attached to a session review.
type ReviewRating string

const (
	RatingNoOpinion       ReviewRating = "NO_OPINION"
	RatingVeryUnsatisfied ReviewRating = "very_unsatisfied"
	RatingUnsatisfied     ReviewRating = "unsatisfied"
	RatingSatisfied       ReviewRating = "satisfied"
	RatingVerySatisfied   ReviewRating = "very_satisfied"
	RatingExcellent       ReviewRating = "excellent"
)

var ReviewRatings = NewEnumTable(RatingNoOpinion,
	RatingVeryUnsatisfied, RatingUnsatisfied, RatingSatisfied, RatingVerySatisfied, RatingExcellent,
)
