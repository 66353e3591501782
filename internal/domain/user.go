package domain

import "time"

// Gender values accepted across profile and measurement inputs.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Activity levels recognised by the energy budget calculation.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly active"
	ActivityModeratelyActive = "moderately active"
	ActivityVeryActive       = "very active"
)

// User is an account holder. Passwords are stored only as bcrypt hashes.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthProfile captures the demographic and lifestyle data a user fills in
// once and updates occasionally. Height is centimetres, weight kilograms.
type HealthProfile struct {
	UserID         string
	Name           string
	Age            int
	Gender         string
	HeightCm       float64
	WeightKg       float64
	ActivityLevel  string
	SleepHours     string
	DietPreference string
	Goal           string
	StressLevel    string
	UpdatedAt      time.Time
}
