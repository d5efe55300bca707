package domain

// WispayAccount is a prepaid stored-value account identified by an RFID card.
// The backend owns it; this service only reads balances and requests debits.
type WispayAccount struct {
	RFID    string  `json:"rfid"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}
