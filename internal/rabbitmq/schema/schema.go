package schema

import (
	"encoding/json"
)

// OTPNotification is the message the SMS gateway consumer expects. It
// carries raw secrets, so queue contents must be treated as sensitive and
// never logged.
type OTPNotification struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
	Token string `json:"token"`
}

func (n *OTPNotification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *OTPNotification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}
