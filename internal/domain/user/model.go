package user

// Principal is the authenticated caller as reported by the record store.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
}
