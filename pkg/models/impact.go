package models

// ImpactLabel is the tri-state sentiment classification assigned to a
// holding's aggregated news set. It is a closed enumeration; downstream
// reporting depends on exactly these three values.
type ImpactLabel string

const (
	ImpactPositive ImpactLabel = "Positive"
	ImpactNegative ImpactLabel = "Negative"
	ImpactNeutral  ImpactLabel = "Neutral"
)

// Valid reports whether l is one of the three defined labels.
func (l ImpactLabel) Valid() bool {
	switch l {
	case ImpactPositive, ImpactNegative, ImpactNeutral:
		return true
	}
	return false
}
