package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// here because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags and
// never serialise the password hash.
//
// Fields:
//  ID           – auto-increment primary key; never exposed outside the store.
//  UserID       – public opaque identifier (ULID), unique.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact phone number.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    UserID       string    // users.user_id
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Phone        string    // users.phone
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
