// Package feedback describes the acknowledgement and confirmation dialogs
// shown after a submission settles or before a destructive action.
package feedback

import (
	"context"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Kind selects the dialog icon and buttons.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
)

// Dialog is a blocking acknowledgement or confirmation.
type Dialog struct {
	Kind  Kind
	Title string
	Text  string
	// HTML is an optional rich body, already sanitised.
	HTML        template.HTML
	ConfirmText string
	CancelText  string
	// Action is where a confirmed dialog posts to.
	Action string
	// Next is where the user goes after dismissing the dialog.
	Next string
}

// Presenter shows dialogs to a user.
type Presenter interface {
	// Notify shows d and returns once it is dismissed.
	Notify(ctx context.Context, d Dialog) error
	// Confirm shows d and reports whether the user confirmed.
	Confirm(ctx context.Context, d Dialog) (bool, error)
}

var policy = bluemonday.UGCPolicy()

// Sanitize strips anything but basic formatting from an HTML fragment.
func Sanitize(fragment string) template.HTML {
	return template.HTML(policy.Sanitize(fragment))
}

// Success builds a success acknowledgement.
func Success(title, text string) Dialog {
	return Dialog{Kind: KindSuccess, Title: title, Text: text, ConfirmText: "OK"}
}

// Error builds an error acknowledgement.
func Error(title, text string) Dialog {
	return Dialog{Kind: KindError, Title: title, Text: text, ConfirmText: "OK"}
}

// Info builds an informational alert with a rich body and only a close button.
func Info(title, htmlBody string) Dialog {
	return Dialog{Kind: KindInfo, Title: title, HTML: Sanitize(htmlBody)}
}

// Confirm builds a confirmation for a destructive action posted to action.
func Confirm(title, text, confirmText, action string) Dialog {
	return Dialog{
		Kind:        KindConfirm,
		Title:       title,
		Text:        text,
		ConfirmText: confirmText,
		CancelText:  "Cancel",
		Action:      action,
	}
}

// WithNext sets where the user lands after dismissing the dialog.
func (d Dialog) WithNext(next string) Dialog {
	d.Next = next
	return d
}

// ConfirmLogout asks before ending the session.
func ConfirmLogout() Dialog {
	return Confirm("Sign out", "Are you sure you want to sign out of your account?", "Sign out", "/logout")
}

// ConfirmDeleteAgent asks before deleting the named agent.
func ConfirmDeleteAgent(id, name string) Dialog {
	return Confirm("Delete agent", "Are you sure you want to delete the agent "+name+"?", "Delete", "/agent/"+id+"/delete")
}
