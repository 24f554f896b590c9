package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Guide struct {
	bun.BaseModel `bun:"table:guides,alias:g"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name" validate:"required,max=200"`
	Speciality   string    `bun:"speciality,notnull" json:"speciality" validate:"required"`
	Availability bool      `bun:"availability,notnull" json:"availability"`
	PhotoURL     string    `bun:"photo_url" json:"photo_url" validate:"omitempty,weburl"`
	PhoneNumber  string    `bun:"phone_number" json:"phone_number" validate:"required,phone"`
	Email        string    `bun:"email" json:"email" validate:"required,email"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
