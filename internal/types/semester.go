package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Semester is the canonical course semester, an integer between MinSemester
// and MaxSemester. Clients may also send it as a roman numeral (I..X).
type Semester int

const (
	MinSemester Semester = 1
	MaxSemester Semester = 10
)

var romanSemesters = map[string]Semester{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
}

// ParseSemester accepts "1".."10" or "I".."X" (any case, surrounding spaces ignored).
func ParseSemester(s string) (Semester, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: semester is required", ErrInvalidInput)
	}
	if n, err := strconv.Atoi(s); err == nil {
		sem := Semester(n)
		if !sem.Valid() {
			return 0, fmt.Errorf("%w: semester %d out of range", ErrInvalidInput, n)
		}
		return sem, nil
	}
	if sem, ok := romanSemesters[strings.ToUpper(s)]; ok {
		return sem, nil
	}
	return 0, fmt.Errorf("%w: unknown semester %q", ErrInvalidInput, s)
}

func (s Semester) Valid() bool {
	return s >= MinSemester && s <= MaxSemester
}

func (s Semester) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

func (s *Semester) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		sem, err := ParseSemester(str)
		if err != nil {
			return err
		}
		*s = sem
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: semester must be a number or roman numeral", ErrInvalidInput)
	}
	sem := Semester(n)
	if !sem.Valid() {
		return fmt.Errorf("%w: semester %d out of range", ErrInvalidInput, n)
	}
	*s = sem
	return nil
}

// Scan implements the sql.Scanner interface for Semester.
func (s *Semester) Scan(value interface{}) error {
	switch v := value.(type) {
	case Semester:
		*s = v
	case int64:
		*s = Semester(v)
	case int32:
		*s = Semester(v)
	case int16:
		*s = Semester(v)
	case int:
		*s = Semester(v)
	case string:
		sem, err := ParseSemester(v)
		if err != nil {
			return err
		}
		*s = sem
	case []byte:
		sem, err := ParseSemester(string(v))
		if err != nil {
			return err
		}
		*s = sem
	default:
		return fmt.Errorf("failed to scan Semester: unexpected type %T", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for Semester.
func (s Semester) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid Semester value: %d", s)
	}
	return int64(s), nil
}
