package model

import "time"

// Role names as stored in users.role.  Admins see and manage every
// intervention; workers are scoped to rows whose mecanicien matches
// their own username.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

// User represents a row in the `users` table.  Accounts are provisioned
// out of band; this service only reads them during login.  The Password
// column holds either a bcrypt hash or, for accounts that predate
// hashing, the plain password itself.  It must never be serialized into
// a response, hence no struct carries it past the login handler.
//
// Fields:
//
//	ID        – primary key identifier of the user.
//	Username  – unique login name; also the ownership key on interventions.
//	Password  – stored credential (bcrypt hash or legacy plaintext).
//	Role      – "admin" or "worker".
//	FullName  – display name embedded in the session token.
//	CreatedAt – timestamp of creation.
type User struct {
	ID        uint64    // users.id
	Username  string    // users.username
	Password  string    // users.password
	Role      string    // users.role
	FullName  string    // users.full_name
	CreatedAt time.Time // users.created_at
}
