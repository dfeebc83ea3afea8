package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleHost     Role = "host"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// ActorContext identifies who is performing an operation. It is always passed
// explicitly; nothing in the engine reads ambient session state.
type ActorContext struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

func (a ActorContext) IsAdmin() bool    { return a.Role == RoleAdmin }
func (a ActorContext) IsHost() bool     { return a.Role == RoleHost }
func (a ActorContext) IsCustomer() bool { return a.Role == RoleCustomer }

// Anonymous reports whether no authenticated user is attached.
func (a ActorContext) Anonymous() bool { return a.UserID == 0 }
