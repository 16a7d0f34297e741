package models

import (
	"strings"

	"github.com/google/uuid"
)

// Record IDs are short human-readable codes: a two-letter kind prefix, up
// to three characters derived from the record's name, and random
// alphanumeric padding.

func NewUserID(name string) string     { return makeID("AM", namePart(name, 3), 4) }
func NewSalonID(ownerID string) string { return makeID("SL", take(ownerID, 3), 4) }
func NewServiceID(name string) string  { return makeID("SV", namePart(name, 3), 4) }
func NewExpertID(name string) string   { return makeID("EX", namePart(name, 3), 4) }
func NewAppointmentID(salonID, userID string) string {
	return makeID("AP", take(salonID, 2)+take(userID, 2), 3)
}

func makeID(prefix, fixed string, randLen int) string {
	return prefix + fixed + randomPart(randLen)
}

// namePart keeps the first n alphanumeric characters of name, uppercased,
// padded with 'X' when the name is too short.
func namePart(name string, n int) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == n {
				break
			}
		}
	}
	part := strings.ToUpper(b.String())
	for len(part) < n {
		part += "X"
	}
	return part
}

func take(s string, n int) string {
	if len(s) < n {
		return s + strings.Repeat("X", n-len(s))
	}
	return s[:n]
}

func randomPart(n int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(raw) {
		n = len(raw)
	}
	return raw[:n]
}
