package types

import "time"

type UserType string

const (
	UserTypeDonor     UserType = "donor"
	UserTypeRequester UserType = "requester"
)

type User struct {
	ID             string    `db:"id" json:"id"`
	UserType       UserType  `db:"user_type" json:"userType"`
	FirstName      string    `db:"first_name" json:"firstName"`
	LastName       string    `db:"last_name" json:"lastName"`
	MobileNumber   string    `db:"mobile_number" json:"mobileNumber"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Location       string    `db:"location" json:"location"`
	BloodType      BloodType `db:"blood_group" json:"bloodGroup"`
	Verified       bool      `db:"verified" json:"verified"`
	Available      bool      `db:"available" json:"available"`
	TotalDonations int       `db:"total_donations" json:"totalDonations"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Donor is the read-only view of a user that the matching engine works with.
type Donor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BloodType      BloodType `json:"bloodGroup"`
	Location       string    `json:"location"`
	Phone          string    `json:"mobileNumber"`
	Email          string    `json:"email"`
	Verified       bool      `json:"verified"`
	Available      bool      `json:"available"`
	TotalDonations int       `json:"totalDonations"`
}

func (u *User) Donor() Donor {
	return Donor{
		ID:             u.ID,
		Name:           u.FullName(),
		BloodType:      u.BloodType,
		Location:       u.Location,
		Phone:          u.MobileNumber,
		Email:          u.Email,
		Verified:       u.Verified,
		Available:      u.Available,
		TotalDonations: u.TotalDonations,
	}
}

type DonorSearch struct {
	BloodGroup string `form:"bloodGroup"`
	Location   string `form:"location"`
}

type Review struct {
	ID        string    `db:"id" json:"id"`
	DonorID   string    `db:"donor_id" json:"donorId"`
	AuthorID  *string   `db:"author_id" json:"authorId,omitempty"`
	Review    string    `db:"review" json:"review"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
