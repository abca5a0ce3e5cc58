package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Constraint names declared in migrations/000001_init.up.sql.
const (
	eventDayConstraint  = "events_organiser_day_key"
	userEmailConstraint = "users_email_key"
)

// isUniqueViolation reports whether err is a unique_violation (23505) on constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
