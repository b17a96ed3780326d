package models

// Card represents a barcode card in a user's wallet
type Card struct {
	ID        int64    `json:"id"`
	Barcode   string   `json:"barcode"`
	Name      string   `json:"name,omitempty"`
	Merchant  string   `json:"merchant,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Date      string   `json:"date,omitempty"`
	Note      string   `json:"note,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	Owner     string   `json:"owner"`
	UserID    int64    `json:"user_id"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// CardFilter narrows a card listing. Zero values mean "no filter".
type CardFilter struct {
	Owner    string
	Merchant string
	Search   string
}
