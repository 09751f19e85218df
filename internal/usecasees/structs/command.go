package structs

const (
	CommandClose    = "CLOSE"
	CommandCloseAll = "CLOSE_ALL"
	CommandDelete   = "DELETE"
	CommandModifySL = "MODIFY_SL"
	CommandModifyTP = "MODIFY_TP"
)

// Command is one outbound instruction for the execution agent, always
// addressed to an explicit ticket list on one account.
type Command struct {
	Kind       string  `json:"type"`
	AccountID  string  `json:"accountNumber"`
	Platform   string  `json:"platform"`
	Tickets    []int64 `json:"tickets"`
	NewValue   float64 `json:"newValue,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}
