package domain

// User is a registered account. CredentialHash and CredentialSalt together
// form the verifiable representation of the password; the plaintext is never
// stored.
type User struct {
	ID             int64
	Username       string
	CredentialHash string   // base64 PBKDF2 output
	CredentialSalt []byte   // 16 bytes, unique per user
	PhoneNumber    string   // "" means unset
	GoalWeight     *float64 // nil means no goal set; > 0 when present
}

// HasGoal reports whether a goal weight has been set.
func (u User) HasGoal() bool {
	return u.GoalWeight != nil
}
