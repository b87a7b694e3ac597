package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a registered account. MonthlyIncome stays nil until the user
// records one; uploads are rejected while it is unset.
type User struct {
	ID                uuid.UUID        `json:"id"`
	Email             string           `json:"email"`
	FullName          string           `json:"fullName"`
	Password          string           `json:"-"`
	MonthlyIncome     *decimal.Decimal `json:"monthlyIncome"`
	EmailVerified     bool             `json:"emailVerified"`
	VerificationToken *string          `json:"-"`
	CreatedAt         time.Time        `json:"createdAt"`
}
