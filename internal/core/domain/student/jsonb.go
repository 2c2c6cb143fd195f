package student

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attendance and Marks live in JSONB columns, so both sides of the sqlx
// round trip go through encoding/json.

func (a Attendance) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Attendance) Scan(src any) error {
	return scanJSON(src, a)
}

func (m Marks) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Marks) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
