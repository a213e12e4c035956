package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Author is the single normalized author shape. Incoming payloads may carry the
// author as a plain string or as a legacy {"name": ...} object; both decode here.
type Author struct {
	DisplayName string `json:"display_name"`
}

// NewAuthor builds an Author from a display name
func NewAuthor(name string) Author {
	return Author{DisplayName: strings.TrimSpace(name)}
}

// IsZero reports whether no author name is set
func (a Author) IsZero() bool {
	return a.DisplayName == ""
}

func (a Author) String() string {
	return a.DisplayName
}

// UnmarshalJSON accepts "Jane Doe", {"name": "Jane Doe"}, {"display_name": "Jane Doe"}
// and {"displayName": "Jane Doe"}.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Author{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*a = NewAuthor(name)
		return nil
	}

	var obj struct {
		DisplayName      string `json:"display_name"`
		DisplayNameCamel string `json:"displayName"`
		Name             string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("author must be a string or an object with a name: %w", err)
	}

	switch {
	case obj.DisplayName != "":
		*a = NewAuthor(obj.DisplayName)
	case obj.DisplayNameCamel != "":
		*a = NewAuthor(obj.DisplayNameCamel)
	default:
		*a = NewAuthor(obj.Name)
	}
	return nil
}

// Value stores the author as its display name
func (a Author) Value() (driver.Value, error) {
	return a.DisplayName, nil
}

// Scan reads the author display name column
func (a *Author) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Author{}
	case string:
		*a = Author{DisplayName: v}
	case []byte:
		*a = Author{DisplayName: string(v)}
	default:
		return fmt.Errorf("cannot scan %T into Author", src)
	}
	return nil
}
