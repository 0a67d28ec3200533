package models

// Step enumerates the states of the capture wizard.
type Step string

const (
	StepIdle        Step = "idle"
	StepAskSite     Step = "ask_site"
	StepAskAccount  Step = "ask_account"
	StepAskPassword Step = "ask_password"
	StepAskExpiry   Step = "ask_expiry"
	StepAskExtra    Step = "ask_extra"
)

// Session is the in-progress wizard state for one user. Field values are
// plaintext copies collected turn by turn; encryption happens only at the
// final commit. The zero value is a fresh idle session.
type Session struct {
	Step      Step    `json:"step"`
	Name      string  `json:"name,omitempty"`
	Site      string  `json:"site,omitempty"`
	Account   string  `json:"account,omitempty"`
	Password  string  `json:"password,omitempty"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
	Extra     *string `json:"extra,omitempty"`
}

// Idle reports whether the session carries no in-progress flow.
func (s *Session) Idle() bool {
	return s.Step == "" || s.Step == StepIdle
}
