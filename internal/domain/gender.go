package domain

// Recognized gender values in the membership database.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// NormalizeGender maps free-text gender input onto the values the membership
// database accepts. The comparison is deliberately case-sensitive: anything
// that is not exactly "male" or "female" is recorded as "unknown".
func NormalizeGender(s string) string {
	if s == GenderMale || s == GenderFemale {
		return s
	}
	return GenderUnknown
}
