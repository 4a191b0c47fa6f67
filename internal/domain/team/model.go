package team

// Team is one side of a match. Exactly two teams exist per game; the loader
// enforces that invariant and keeps provider order (index 0 home, 1 away).
type Team struct {
	TeamID   int64
	TeamName string
}
