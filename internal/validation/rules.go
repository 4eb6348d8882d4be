package validation

// SignupInput applies the account creation rules: usernames are
// 11-character document numbers, passwords 8 to 20 characters.
func (v *Validator) SignupInput(username, password, birthdate string) {
	v.Required("username", username)
	v.MinLength("username", username, 11)
	v.MaxLength("username", username, 11)

	v.Required("password", password)
	v.MinLength("password", password, 8)
	v.MaxLength("password", password, 20)

	v.Required("birthdate", birthdate)
}

// SigninInput applies the credential presence rules.
func (v *Validator) SigninInput(username, password string) {
	v.Required("username", username)
	v.Required("password", password)
}

// TransferInput applies the boundary rules for a transfer request.
// The executor revalidates; this keeps malformed requests from ever
// reaching it.
func (v *Validator) TransferInput(fromID, toID string, amount int64) {
	v.Required("fromId", fromID)
	v.Required("toId", toID)
	v.Check(fromID != toID, "toId", "cannot transfer to same user")
	v.Check(amount > 0, "amount", "amount must be greater than 0")
}
