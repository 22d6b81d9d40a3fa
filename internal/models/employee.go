package models

// Employee represents an employee entity together with its two emergency contacts.
type Employee struct {
	ID                 int              `json:"id"`
	FullName           string           `json:"fullName"`
	JobTitle           *string          `json:"jobTitle"`
	PhoneNumber        *string          `json:"phoneNumber"`
	Email              *string          `json:"email"`
	Address            *string          `json:"address"`
	City               *string          `json:"city"`
	State              *string          `json:"state"`
	PrimaryContactID   int              `json:"primaryContactId"`
	SecondaryContactID int              `json:"secondaryContactId"`
	PrimaryContact     EmergencyContact `json:"primaryContact"`
	SecondaryContact   EmergencyContact `json:"secondaryContact"`
}

// EmergencyContact is owned by exactly one employee slot (primary or secondary).
type EmergencyContact struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Relationship string `json:"relationship"`
}
