package codec

// Quality is an optional encode quality in [0, 1]. The zero value is unset,
// which tells the codec tool to use its own default. There is no sentinel
// numeric value; callers must check the second return of Value.
type Quality struct {
	value float64
	valid bool
}

// QualityOf returns a set Quality. The value must already be within [0, 1];
// range validation happens where user input is parsed.
func QualityOf(value float64) Quality {
	return Quality{value: value, valid: true}
}

// UnsetQuality returns the explicit "use codec default" value.
func UnsetQuality() Quality {
	return Quality{}
}

// QualityFromPercent converts a user-supplied 0-100 percentage. Values
// outside the range yield an unset Quality and ok=false so the caller can
// warn and continue.
func QualityFromPercent(percent float64) (Quality, bool) {
	if percent < 0 || percent > 100 {
		return Quality{}, false
	}
	return QualityOf(percent / 100), true
}

// Value returns the quality and whether it is set.
func (q Quality) Value() (float64, bool) {
	return q.value, q.valid
}

// IsSet reports whether a quality was supplied.
func (q Quality) IsSet() bool {
	return q.valid
}
