package postgres

import (
	"database/sql"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// profileColumns are shared by the customers and admins tables, in this order.
const profileColumns = `username, email, phone, first_name, last_name, age, gender, marital_status`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func profileArgs(p domain.Profile) []any {
	return []any{
		p.Username,
		p.Email,
		p.Phone,
		p.FirstName,
		p.LastName,
		p.Age,
		string(p.Gender),
		string(p.MaritalStatus),
	}
}

func profileDest(p *domain.Profile) []any {
	return []any{
		&p.Username,
		&p.Email,
		&p.Phone,
		&p.FirstName,
		&p.LastName,
		&p.Age,
		&p.Gender,
		&p.MaritalStatus,
	}
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
