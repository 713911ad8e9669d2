package model

// Item represents a single lost-or-found report.
//
// Fields use the app-format (camelCase) names; the remote table's snake_case
// column names are mapped in the storage layer. Optional fields are pointers
// so a missing value serializes as null rather than being omitted.
type Item struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`

	Image         *string `json:"image"`
	ReporterName  string  `json:"reporterName"`
	ReporterEmail string  `json:"reporterEmail"`
	ReporterPhone *string `json:"reporterPhone"`

	// DateReported is assigned by whichever backend created the record,
	// as an RFC 3339 timestamp string.
	DateReported string `json:"dateReported"`

	// Lost reports only.
	DateLost *string `json:"dateLost"`
	Reward   *string `json:"reward"`

	// Found reports only.
	DateFound             *string `json:"dateFound"`
	CurrentLocation       *string `json:"currentLocation"`
	VerificationQuestions *string `json:"verificationQuestions"`
	Availability          *string `json:"availability"`
}

// Item types.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// MaxDescriptionLen is the description cap enforced at the API boundary.
const MaxDescriptionLen = 500

// ValidType checks that t is one of the two report types.
func ValidType(t string) bool {
	return t == TypeLost || t == TypeFound
}

// Filters narrows a search. Type and Category match exactly and are skipped
// when empty or "all"; Location is a case-insensitive substring match.
type Filters struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Location string `json:"location"`
}
