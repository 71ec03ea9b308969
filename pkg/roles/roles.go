package roles

// Role is the account type an actor authenticates as. Bakeries own inventory
// and accept requests; charities create requests and submit feedback; admin is
// the trusted system caller and passes every role gate.
type Role string

const (
	Bakery  Role = "bakery"
	Charity Role = "charity"
	Admin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case Bakery, Charity, Admin:
		return true
	default:
		return false
	}
}

// Satisfies reports whether the role may act as the required one. Bakery and
// charity are siblings, not a hierarchy; only admin crosses the boundary.
func (r Role) Satisfies(required Role) bool {
	if r == Admin {
		return true
	}
	return r == required
}

func (r Role) String() string {
	return string(r)
}
