package domain

type Currency struct {
	ID     int64  `json:"-"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}
