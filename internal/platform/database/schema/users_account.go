package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Username       string
	Userslug       string
	Email          string
	DisplayName    string
	Picture        string
	JoinedAt       string
	Password       string
	Banned         string
	EmailConfirmed string
	PasswordExpiry string
	Role           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          "users.account",
	ID:             "id",
	Username:       "username",
	Userslug:       "userslug",
	Email:          "email",
	DisplayName:    "displayname",
	Picture:        "picture",
	JoinedAt:       "joindate",
	Password:       "passwordhash",
	Banned:         "banned",
	EmailConfirmed: "emailconfirmed",
	PasswordExpiry: "passwordexpiry",
	Role:           "role",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Userslug, t.Email, t.DisplayName, t.Picture,
		t.JoinedAt, t.Password, t.Banned, t.EmailConfirmed,
		t.PasswordExpiry, t.Role,
	}
}
