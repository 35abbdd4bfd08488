package models

// Credential is one entry in the demo credential table. Passwords are stored
// and compared in plaintext; this is a demo-only identity source behind the
// CredentialStore interface, swappable for a real provider.
type Credential struct {
	Email            string
	Password         string
	FamilyOfficeID   int64
	FamilyOfficeName string
}

// Identity is the authenticated admin returned by a successful login.
type Identity struct {
	Email            string
	FamilyOfficeID   int64
	FamilyOfficeName string
}
