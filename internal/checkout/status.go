package checkout

// Status tracks a checkout run through its steps. Cash runs go
// IDLE → CONFIRMING → SUBMITTING; Wispay runs go IDLE → (CREDIT_CHECKED) →
// CONFIRMING → DEBITING_BALANCE → SUBMITTING_ORDER. Both end in SUCCESS or
// FAILED; COMPENSATION_FAILED marks a debit that could not be reversed after
// the order submission failed.
type Status string

const (
	StatusIdle               Status = "IDLE"
	StatusCreditChecked      Status = "CREDIT_CHECKED"
	StatusConfirming         Status = "CONFIRMING"
	StatusSubmitting         Status = "SUBMITTING"
	StatusDebitingBalance    Status = "DEBITING_BALANCE"
	StatusSubmittingOrder    Status = "SUBMITTING_ORDER"
	StatusSuccess            Status = "SUCCESS"
	StatusFailed             Status = "FAILED"
	StatusCompensationFailed Status = "COMPENSATION_FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCompensationFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

var transitions = map[Status][]Status{
	StatusIdle:            {StatusCreditChecked, StatusConfirming},
	StatusCreditChecked:   {StatusConfirming, StatusCreditChecked},
	StatusConfirming:      {StatusSubmitting, StatusDebitingBalance, StatusFailed},
	StatusSubmitting:      {StatusSuccess, StatusFailed},
	StatusDebitingBalance: {StatusSubmittingOrder, StatusFailed},
	StatusSubmittingOrder: {StatusSuccess, StatusFailed, StatusCompensationFailed},
}

// CanTransitionTo reports whether a run may move from one status to another.
func CanTransitionTo(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
