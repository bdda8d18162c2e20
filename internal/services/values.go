package services

import (
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// DateString renders a date-only value the way it is stored in history
// entries and returned in responses.
func DateString(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}

	s := time.Time(*d).Format(dateLayout)
	return &s
}

func ParseDate(s string) (*datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)

	if err != nil {
		return nil, err
	}

	d := datatypes.Date(t)
	return &d, nil
}

func strValue(s string) *string {
	return &s
}

// ptrEqual is the null-safe comparison used by the task diff: two nils are
// equal, nil never equals a value.
func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
