package models

// Rank is an access level. Higher ranks include every lower one.
type Rank int

const (
	RankNone Rank = iota
	RankAdmin
	RankDeveloper
)

func (r Rank) String() string {
	switch r {
	case RankAdmin:
		return "admin"
	case RankDeveloper:
		return "developer"
	default:
		return "none"
	}
}

// AtLeast reports whether r grants the access of min.
func (r Rank) AtLeast(min Rank) bool {
	return r >= min
}
