package model

const (
	RoleAnonymous = "anonymous"
	RoleUser      = "user"
	RoleAdmin     = "admin"
)

// Actor is the identity attached to a request after the transport layer has
// authenticated it. Anonymous requests carry an Actor with an empty ID.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

func (a Actor) IsAnonymous() bool {
	return a.ID == "" || a.Role == RoleAnonymous
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
