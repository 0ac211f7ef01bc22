package domain

// RoleAdmin is the default role name granted to moderators.
const RoleAdmin = "admin"

// Principal is the authenticated caller of an operation.
type Principal struct {
	Subject string
	Email   string
	Name    string
	Phone   string
	Role    string
}

// IsAuthenticated returns true if the principal carries an identity.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.Subject != ""
}

// IsAdmin returns true if the principal may moderate applications.
func (p *Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == RoleAdmin
}
