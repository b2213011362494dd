// Package console runs the credential flows from a terminal: it prompts for
// missing fields, submits through the same Submitter as the web front-end and
// reports the outcome as a dialog.
package console

import (
	"context"
	"fmt"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/feedback"
	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/service"
	"github.com/mtlprog/nexa/internal/session"
)

// clientKey identifies terminal submissions for in-flight deduplication.
const clientKey = "console"

// Runner drives one terminal session.
type Runner struct {
	submitter *service.Submitter
	prompt    *feedback.TerminalPresenter
	store     session.Store
}

// New creates a Runner persisting the session in store.
func New(submitter *service.Submitter, prompt *feedback.TerminalPresenter, store session.Store) *Runner {
	return &Runner{submitter: submitter, prompt: prompt, store: store}
}

// Login signs in, prompting for whatever rec lacks.
func (r *Runner) Login(ctx context.Context, rec form.Record) error {
	if err := r.fill(ctx, form.Login, rec); err != nil {
		return err
	}
	return r.settle(ctx, form.Login, r.submitter.Login(ctx, r.store, clientKey, rec))
}

// Logout clears the stored session after confirmation.
func (r *Runner) Logout(ctx context.Context) error {
	ok, err := r.prompt.Confirm(ctx, feedback.ConfirmLogout())
	if err != nil {
		return err
	}
	if !ok {
		return r.prompt.Notify(ctx, feedback.Dialog{Title: "Cancelled"})
	}

	if err := r.submitter.Logout(ctx, r.store); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return r.prompt.Notify(ctx, feedback.Success("Signed out", ""))
}

// ForgotPassword requests a reset link.
func (r *Runner) ForgotPassword(ctx context.Context, rec form.Record) error {
	if err := r.fill(ctx, form.ForgotPassword, rec); err != nil {
		return err
	}
	return r.settle(ctx, form.ForgotPassword, r.submitter.ForgotPassword(ctx, clientKey, rec))
}

// ResetPassword sets a new password. rec must carry the token and username from the reset link.
func (r *Runner) ResetPassword(ctx context.Context, rec form.Record) error {
	if err := r.fill(ctx, form.ResetPassword, rec); err != nil {
		return err
	}
	return r.settle(ctx, form.ResetPassword, r.submitter.ResetPassword(ctx, clientKey, rec))
}

// Register submits a sign-up request.
func (r *Runner) Register(ctx context.Context, rec form.Record) error {
	if err := r.fill(ctx, form.Register, rec); err != nil {
		return err
	}
	return r.settle(ctx, form.Register, r.submitter.Register(ctx, clientKey, rec))
}

// fill prompts for every visible field of schema missing from rec.
func (r *Runner) fill(ctx context.Context, schema *form.Schema, rec form.Record) error {
	for _, f := range schema.Fields {
		if f.Hidden || rec[f.Name] != "" {
			continue
		}

		label := f.Label + ": "
		if !f.Required {
			label = f.Label + " (optional): "
		}

		var (
			v   string
			err error
		)
		if f.Sensitive {
			v, err = r.prompt.ReadSecret(ctx, label)
		} else {
			v, err = r.prompt.ReadLine(ctx, label)
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
		rec[f.Name] = v
	}
	return nil
}

// settle shows the outcome and turns failures into errors.
func (r *Runner) settle(ctx context.Context, schema *form.Schema, res service.SubmitResult) error {
	if res.Outcome == service.OutcomeValidationRejected {
		for _, f := range schema.Fields {
			msg, ok := res.Errors[f.Name]
			if !ok {
				continue
			}
			label := f.Label
			if label == "" {
				label = f.Name
			}
			if err := r.prompt.Notify(ctx, feedback.Error(label, msg)); err != nil {
				return err
			}
		}
		return domain.ErrValidation
	}

	if err := r.prompt.Notify(ctx, res.Dialog); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%s: %w", res.Outcome, res.Err)
	}
	return nil
}
