package flows

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Login    LoginDeps
	Validate ValidateDeps
	Logout   LogoutDeps
	Profile  ProfileDeps
	Health   HealthDeps
}

// UserRecord is the flow-local view of a stored user.
type UserRecord struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash string
}
