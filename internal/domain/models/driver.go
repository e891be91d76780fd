package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Driver struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	VehicleInfo *VehicleInfo `json:"vehicleInfo,omitempty"`
}

type VehicleInfo struct {
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registrationNumber"`
	Type               string `json:"type"`
	SeatingCapacity    int    `json:"seatingCapacity"`
}

// UnmarshalJSON accepts the id under "id", "_id" or "userId", as a string or a
// number. Fields of the wrong type are left empty instead of failing the driver.
func (d *Driver) UnmarshalJSON(b []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}

	out := Driver{
		ID:        firstID(keys, "id", "_id", "userId"),
		FirstName: stringField(keys, "firstName"),
		LastName:  stringField(keys, "lastName"),
		Email:     stringField(keys, "email"),
		Phone:     stringField(keys, "phone"),
	}

	if raw, ok := keys["vehicleInfo"]; ok {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			var v VehicleInfo
			// a type error still fills the fields decoded before and after it
			_ = json.Unmarshal(raw, &v)
			out.VehicleInfo = &v
		}
	}

	*d = out
	return nil
}

func stringField(m map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(m[key], &s); err != nil {
		return ""
	}
	return s
}

// FullName is "First Last", falling back to the email.
func (d *Driver) FullName() string {
	if d == nil {
		return ""
	}
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return d.Email
	}
	return name
}

// Vehicle describes the car in one line, empty when unknown.
func (d *Driver) Vehicle() string {
	if d == nil || d.VehicleInfo == nil {
		return ""
	}
	v := d.VehicleInfo
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", v.Brand, v.Model, v.RegistrationNumber))
}

// DriverRef points at a driver either by id or by an embedded partial object.
type DriverRef struct {
	ID       string
	Embedded *Driver
}

func (r *DriverRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = DriverRef{}
		return nil
	}

	if b[0] == '{' {
		var d Driver
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		*r = DriverRef{ID: d.ID, Embedded: &d}
		return nil
	}

	id, err := scalarID(b)
	if err != nil {
		return fmt.Errorf("driver reference: %w", err)
	}
	*r = DriverRef{ID: id}
	return nil
}

func (r DriverRef) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// IsZero reports whether the reference carries no driver id.
func (r DriverRef) IsZero() bool {
	return r.ID == ""
}

// scalarID decodes a JSON string or number into an id.
func scalarID(b []byte) (string, error) {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// firstID returns the first non-empty scalar id among keys.
func firstID(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		if id, err := scalarID(bytes.TrimSpace(raw)); err == nil && id != "" {
			return id
		}
	}
	return ""
}
