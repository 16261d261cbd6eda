package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Languages is a JSONB-backed ordered list of spoken languages.
type Languages []string

func (l Languages) Value() (driver.Value, error) {
	if l == nil {
		l = Languages{}
	}
	return json.Marshal(l)
}

func (l *Languages) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// MedicineList is a JSONB-backed copy of prescription medicines, stored
// by value on pharmacy orders.
type MedicineList []Medicine

func (m MedicineList) Value() (driver.Value, error) {
	if m == nil {
		m = MedicineList{}
	}
	return json.Marshal(m)
}

func (m *MedicineList) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}
