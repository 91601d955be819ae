package models

// Identity is the authenticated caller resolved by the auth
// middleware: a dairy user, a device, or an admin.
type Identity struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Type      string `json:"type"`
	Email     string `json:"email"`
	DairyCode string `json:"dairyCode,omitempty"`
	DeviceID  string `json:"deviceid,omitempty"`
}
