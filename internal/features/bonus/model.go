package bonus

import "time"

// Tier pays Amount once the sales count reaches Threshold.
type Tier struct {
	Threshold int   `json:"threshold"`
	Amount    int64 `json:"amount"`
}

type Result struct {
	Amount        int64 `json:"amount"`
	NextGoal      int   `json:"next_goal"`
	NeededForNext int   `json:"needed_for_next"`
}

// Earnings is what a staff member made over [From, To).
type Earnings struct {
	StaffID    string    `json:"staff_id"`
	StaffName  string    `json:"staff_name"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Sales      int       `json:"sales"`
	Commission float64   `json:"commission"`
	Bonus      Result    `json:"bonus"`
}
