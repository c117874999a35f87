package models

// User is one row of the USUARIOS table. An ID of 0 means the record has
// not been persisted yet; the store assigns the identity on insert and it
// is immutable afterward.
type User struct {
	ID           int
	FirstNames   string // nombres
	LastNames    string // apellidos
	Email        string
	NationalID   string // ci_ruc: 10-digit RUC or 13-digit CI
	PasswordHash string // empty on read paths that don't need it
	PhotoURL     string // foto_url, optional
}

// SearchField selects the column a filtered search matches against.
type SearchField string

const (
	SearchFieldName       SearchField = "name"
	SearchFieldNationalID SearchField = "national_id"
	SearchFieldEmail      SearchField = "email"
)

// ParseSearchField validates a caller-supplied field selector. An empty
// string defaults to name search, matching the mobile client's default.
func ParseSearchField(s string) (SearchField, error) {
	switch SearchField(s) {
	case "", SearchFieldName:
		return SearchFieldName, nil
	case SearchFieldNationalID:
		return SearchFieldNationalID, nil
	case SearchFieldEmail:
		return SearchFieldEmail, nil
	}
	return "", ErrValidation
}
