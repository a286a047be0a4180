package models

import "time"

// Role of an authenticated actor. Registration and credential handling live
// outside this service; the role arrives in the JWT.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStylist  Role = "stylist"
	RoleAdmin    Role = "admin"
)

// User carries the minimal profile the core needs: a display name for slot
// summaries and an FCM token for pushes.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Role      Role      `bson:"role" json:"role"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
