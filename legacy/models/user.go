package models

// User is the snapshot of an account taken when a session is loaded or
// created.
type User struct {
	ID       string
	Username string
	Email    string
	Name     UserFullName
	Verified bool
}

type UserFullName struct {
	Forename string
	Surname  string
	Suffix   string
}

// UserRow mirrors the legacy users table.
type UserRow struct {
	UserID            string
	Email             string
	FirstName         string
	LastName          string
	SuffixName        string
	PasswordHash      string
	FlagEmailVerified bool
	FlagEditUsers     bool
	FlagAdmin         bool
	FlagBanned        bool
}

// NicknameRow mirrors the legacy nicknames table; the primary nickname is
// the account's username.
type NicknameRow struct {
	UserID      string
	Nickname    string
	FlagPrimary bool
}
