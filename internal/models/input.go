package models

// ContactInput is the payload used to create an emergency contact.
type ContactInput struct {
	Name         string `json:"name"         validate:"required"`
	PhoneNumber  string `json:"phoneNumber"  validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

// CreateEmployeeInput is the body of POST /employees.
type CreateEmployeeInput struct {
	FullName         string        `json:"fullName"         validate:"required"`
	JobTitle         *string       `json:"jobTitle"`
	PhoneNumber      *string       `json:"phoneNumber"`
	Email            *string       `json:"email"`
	Address          *string       `json:"address"`
	City             *string       `json:"city"`
	State            *string       `json:"state"`
	PrimaryContact   *ContactInput `json:"primaryContact"   validate:"required"`
	SecondaryContact *ContactInput `json:"secondaryContact" validate:"required"`
}

// ContactPatch holds the contact fields to change. Nil fields are left untouched.
type ContactPatch struct {
	Name         *string `json:"name"         validate:"omitnil,min=1"`
	PhoneNumber  *string `json:"phoneNumber"  validate:"omitnil,min=1"`
	Relationship *string `json:"relationship" validate:"omitnil,min=1"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *ContactPatch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.PhoneNumber == nil && p.Relationship == nil)
}

// UpdateEmployeeInput is the body of PUT /employees/{id}.
// Unset nested contacts leave the corresponding contact row untouched.
type UpdateEmployeeInput struct {
	FullName         *string       `json:"fullName"         validate:"omitnil,min=1"`
	JobTitle         *string       `json:"jobTitle"`
	PhoneNumber      *string       `json:"phoneNumber"`
	Email            *string       `json:"email"`
	Address          *string       `json:"address"`
	City             *string       `json:"city"`
	State            *string       `json:"state"`
	PrimaryContact   *ContactPatch `json:"primaryContact"`
	SecondaryContact *ContactPatch `json:"secondaryContact"`
}
