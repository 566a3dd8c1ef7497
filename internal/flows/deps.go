// Package flows holds the credential operation runners. Each Run*
// function takes its dependencies as plain funcs and classifies failures
// into flow-local kinds; the root engine maps those onto its error
// taxonomy. The package imports nothing but the standard library, so the
// flows test without Redis or a database.
package flows

// Deps groups per-flow dependency sets. The root engine builds this once
// during construction and delegates each public operation to the matching
// flow runner.
type Deps struct {
	Login    LoginDeps
	Refresh  RefreshDeps
	Logout   LogoutDeps
	Validate ValidateDeps
	Reset    ResetDeps
}

// PrincipalRecord is the flow-local account model. Flows never import the
// root package, so the engine converts at the boundary.
type PrincipalRecord struct {
	ID             int64
	Name           string
	Email          string
	CredentialHash string
	Role           string
	Active         bool
}
