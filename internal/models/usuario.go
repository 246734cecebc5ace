package models

import "time"

// Usuario is a back-office account. Password stores the bcrypt hash and is
// never serialized in responses.
type Usuario struct {
	ID        int       `db:"id" json:"id"`
	Correo    string    `db:"correo" json:"correo"`
	Password  string    `db:"password" json:"-"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
