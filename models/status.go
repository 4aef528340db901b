package models

// Status is the presence indicator shown in the portfolio header.
type Status struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}
