package model

// Category is a wager topic. Position is the display order within a tenant.
type Category struct {
	Key         string `json:"key" db:"key"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Placeholder string `json:"placeholder" db:"placeholder"`
	Position    int    `json:"position" db:"position"`
}
