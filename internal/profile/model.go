package profile

import "fmt"

// Kind is the closed set of roles a user can resolve to.
type Kind int

const (
	KindPlayer Kind = iota + 1
	KindClub
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindClub:
		return "club"
	default:
		return "unknown"
	}
}

// Profile is the narrow view of the accounts system this service consumes:
// who the user is and which role they act in. ClubID is set only for clubs.
type Profile struct {
	UserID    int     `db:"user_id" json:"user_id"`
	Username  string  `db:"username" json:"username"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Role      string  `db:"role" json:"role"`
	ClubID    *int    `db:"club_id" json:"club_id,omitempty"`
}

func (p *Profile) Kind() Kind {
	switch p.Role {
	case "player":
		return KindPlayer
	case "club":
		return KindClub
	default:
		return 0
	}
}

func (p *Profile) IsPlayer() bool { return p.Kind() == KindPlayer }

func (p *Profile) IsClub() bool { return p.Kind() == KindClub }

// DisplayName renders the name the way reservation descriptions default to:
// "Last, First" for players, "First Last" for clubs.
func (p *Profile) DisplayName() string {
	if p.IsPlayer() {
		return fmt.Sprintf("%s, %s", p.LastName, p.FirstName)
	}
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}
