package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const CollectionUsers = "users"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User adalah akun dashboard. Password disimpan sebagai hash bcrypt dan
// tidak pernah ikut terserialisasi ke JSON.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"`
}

const bcryptCost = 10

// HashPassword membuat hash bcrypt dari password plaintext. Dipanggil
// tepat satu kali setiap password berubah (buat user, ganti password).
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword mencocokkan password plaintext dengan hash tersimpan.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
