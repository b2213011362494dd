package feedback

import "net/http"

// ConfirmField is the form field a confirmation dialog posts.
const (
	ConfirmField = "confirm"
	ConfirmValue = "yes"
)

// Confirmed reports whether a POSTed confirmation dialog was accepted.
// Cancelling, or posting without the field, resolves to false.
func Confirmed(r *http.Request) bool {
	return r.Method == http.MethodPost && r.PostFormValue(ConfirmField) == ConfirmValue
}
