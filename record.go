package mepdir

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest name, in characters, a record may carry.
// Longer text is almost always a paragraph picked up by mistake.
const MaxNameLength = 100

// StaffRecord is one person extracted from a staff directory.
type StaffRecord struct {
	Name  string `json:"name"`
	Title string `json:"title"`

	// Phone and Mobile hold "(AAA) EEE-LLLL" when the number splits into
	// 3/3/4 digit groups, the raw matched text otherwise.
	Phone  string `json:"phone"`
	Mobile string `json:"mobile"`

	Email string `json:"email"`
	Bio   string `json:"bio"`

	// SourceURL is the listing page, or the profile page when enrichment
	// succeeded.
	SourceURL string `json:"sourceUrl"`
}

// Validate returns an error if the record cannot be emitted.
func (r *StaffRecord) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Errorf(EINVALID, "staff name required")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return Errorf(EINVALID, "staff name too long (%d characters)", n)
	}
	return nil
}

// Columns returns the record's sink columns in workbook order:
// name, title, phone, mobile, email, bio.
func (r *StaffRecord) Columns() []string {
	return []string{r.Name, r.Title, r.Phone, r.Mobile, r.Email, r.Bio}
}

// ColumnHeaders names the values returned by StaffRecord.Columns.
var ColumnHeaders = []string{"Name", "Title", "Phone", "Mobile", "Email", "Bio"}

// Listing is a record derived from one listing-page container together with
// the profile page URL found in that container, if any.
type Listing struct {
	Record     StaffRecord
	ProfileURL string
}
