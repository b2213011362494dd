package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/mtlprog/nexa/internal/apiclient"
	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/feedback"
	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/metrics"
	"github.com/mtlprog/nexa/internal/session"
)

// Outcome is how a submission settled.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeValidationRejected Outcome = "validation-rejected"
	OutcomeNetworkError       Outcome = "network-error"
	OutcomeServerRejected     Outcome = "server-rejected"
)

// SubmitResult is returned by every submission.
type SubmitResult struct {
	Outcome Outcome
	// Errors holds inline field errors for validation-rejected submissions.
	Errors form.Result
	// Dialog is the acknowledgement to show. Empty for validation-rejected.
	Dialog feedback.Dialog
	Err    error
}

// OK reports whether the submission succeeded.
func (r SubmitResult) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// CredentialAPI is the part of the remote API the submission flow uses.
type CredentialAPI interface {
	Login(ctx context.Context, username, password string) (*apiclient.TokenResponse, error)
	ForgotPassword(ctx context.Context, in apiclient.ForgotPasswordRequest) (*apiclient.MessageResponse, error)
	ResetPassword(ctx context.Context, in apiclient.ResetPasswordRequest) (*apiclient.MessageResponse, error)
	Register(ctx context.Context, in apiclient.RegisterRequest) (*apiclient.MessageResponse, error)
}

// Submitter validates credential records and sends them to the remote API.
// Identical concurrent submissions from one client share a single request.
type Submitter struct {
	api      CredentialAPI
	metrics  *metrics.Recorder
	inflight singleflight.Group
}

// NewSubmitter creates a Submitter. rec may be nil.
func NewSubmitter(api CredentialAPI, rec *metrics.Recorder) *Submitter {
	return &Submitter{api: api, metrics: rec}
}

// Login signs in and, on success, stores the issued token in store.
func (s *Submitter) Login(ctx context.Context, store session.Store, client string, rec form.Record) SubmitResult {
	res := s.submit(ctx, form.Login, client, rec, func(ctx context.Context) (any, error) {
		return s.api.Login(ctx, rec["username"], rec["password"])
	})
	if !res.OK() {
		if res.Outcome == OutcomeServerRejected && isStatus(res.Err, http.StatusUnauthorized) {
			res.Dialog = feedback.Error("Sign-in failed", "Incorrect username or password.")
		}
		return res.SubmitResult
	}

	tok := res.value.(*apiclient.TokenResponse)
	if err := store.Set(ctx, tok.AccessToken, tok.TokenType, domain.SessionTTL); err != nil {
		slog.Error("failed to persist session", "error", err)
		return s.settle(form.LoginForm, SubmitResult{
			Outcome: OutcomeNetworkError,
			Dialog:  feedback.Error("Error", "Your session could not be saved. Please try again."),
			Err:     err,
		})
	}

	return s.settle(form.LoginForm, SubmitResult{
		Outcome: OutcomeSuccess,
		Dialog:  feedback.Success("Welcome", "You are now signed in.").WithNext("/agent"),
	})
}

// ForgotPassword requests a reset link for the e-mail in rec.
func (s *Submitter) ForgotPassword(ctx context.Context, client string, rec form.Record) SubmitResult {
	res := s.submit(ctx, form.ForgotPassword, client, rec, func(ctx context.Context) (any, error) {
		return s.api.ForgotPassword(ctx, apiclient.ForgotPasswordRequest{Email: rec["email"]})
	})
	if !res.OK() {
		return res.SubmitResult
	}

	return s.settle(form.ForgotPasswordForm, SubmitResult{
		Outcome: OutcomeSuccess,
		Dialog:  feedback.Success("Check your inbox", "If an account exists for "+rec["email"]+", a reset link is on its way.").WithNext("/login"),
	})
}

// ResetPassword sets the new password from rec using the reset-link token.
func (s *Submitter) ResetPassword(ctx context.Context, client string, rec form.Record) SubmitResult {
	res := s.submit(ctx, form.ResetPassword, client, rec, func(ctx context.Context) (any, error) {
		return s.api.ResetPassword(ctx, apiclient.ResetPasswordRequest{
			Token:       rec["token"],
			Username:    rec["username"],
			NewPassword: rec["password"],
		})
	})
	if !res.OK() {
		return res.SubmitResult
	}

	return s.settle(form.ResetPasswordForm, SubmitResult{
		Outcome: OutcomeSuccess,
		Dialog:  feedback.Success("Password changed", "You can now sign in with your new password.").WithNext("/login"),
	})
}

// Register submits a sign-up request.
func (s *Submitter) Register(ctx context.Context, client string, rec form.Record) SubmitResult {
	res := s.submit(ctx, form.Register, client, rec, func(ctx context.Context) (any, error) {
		return s.api.Register(ctx, apiclient.RegisterRequest{
			Username:     rec["username"],
			Password:     rec["password"],
			Email:        rec["email"],
			FirstName:    rec["firstname"],
			LastName:     rec["lastname"],
			Phone:        rec["phone"],
			Organization: rec["organization"],
		})
	})
	if !res.OK() {
		return res.SubmitResult
	}

	text := "Your request was received and is awaiting approval."
	if msg, ok := res.value.(*apiclient.MessageResponse); ok && msg.Message != "" {
		text = msg.Message
	}
	return s.settle(form.RegisterForm, SubmitResult{
		Outcome: OutcomeSuccess,
		Dialog:  feedback.Success("Request received", text).WithNext("/login"),
	})
}

// Logout clears the session.
func (s *Submitter) Logout(ctx context.Context, store session.Store) error {
	return store.Clear(ctx)
}

type pendingResult struct {
	SubmitResult
	value any
}

// submit validates rec against schema and, only if it is valid, runs call
// once per identical in-flight submission. Failures are final.
func (s *Submitter) submit(
	ctx context.Context,
	schema *form.Schema,
	client string,
	rec form.Record,
	call func(ctx context.Context) (any, error),
) pendingResult {
	if errs := schema.Validate(rec); !errs.Valid() {
		return pendingResult{SubmitResult: s.settle(schema.Name, SubmitResult{
			Outcome: OutcomeValidationRejected,
			Errors:  errs,
			Err:     domain.ErrValidation,
		})}
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends.
	flight := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(flightKey(schema.Name, client, rec), func() (any, error) {
		return call(flight)
	})

	select {
	case <-ctx.Done():
		err := fmt.Errorf("%w: %w", domain.ErrNetwork, ctx.Err())
		return pendingResult{SubmitResult: s.settle(schema.Name, classify(schema.Name, err))}
	case r := <-ch:
		if r.Shared {
			slog.Debug("joined in-flight submission", "form", schema.Name)
		}
		if r.Err != nil {
			return pendingResult{SubmitResult: s.settle(schema.Name, classify(schema.Name, r.Err))}
		}
		return pendingResult{SubmitResult: SubmitResult{Outcome: OutcomeSuccess}, value: r.Val}
	}
}

func (s *Submitter) settle(formName string, res SubmitResult) SubmitResult {
	s.metrics.Submission(formName, string(res.Outcome))
	return res
}

func classify(formName string, err error) SubmitResult {
	var serverErr *apiclient.ServerError
	switch {
	case errors.As(err, &serverErr):
		slog.Warn("submission rejected by server", "form", formName, "status", serverErr.Status, "detail", serverErr.Detail)
		return SubmitResult{
			Outcome: OutcomeServerRejected,
			Dialog:  feedback.Error("Error", RejectionMessage(serverErr.Status)),
			Err:     err,
		}

	case errors.Is(err, domain.ErrMalformedReply):
		slog.Error("unexpected server response", "form", formName, "error", err)
		return SubmitResult{
			Outcome: OutcomeServerRejected,
			Dialog:  feedback.Error("Error", "The server sent an unexpected response."),
			Err:     err,
		}

	case errors.Is(err, domain.ErrNetwork):
		slog.Error("submission failed", "form", formName, "error", err)
		return SubmitResult{
			Outcome: OutcomeNetworkError,
			Dialog:  feedback.Error("Connection problem", "The server could not be reached. Please try again later."),
			Err:     err,
		}

	default:
		slog.Error("submission failed unexpectedly", "form", formName, "error", err)
		return SubmitResult{Outcome: OutcomeNetworkError, Dialog: feedback.Error("Error", err.Error()), Err: err}
	}
}

// RejectionMessage is the fixed dialog text shown for a non-2xx status.
// Server-provided details are logged, never displayed.
func RejectionMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "The request was rejected. Check the details and try again."
	case status == http.StatusUnauthorized:
		return "Incorrect username or password."
	case status == http.StatusForbidden:
		return "You do not have permission to do that."
	case status == http.StatusNotFound:
		return "The account or link could not be found."
	case status == http.StatusConflict:
		return "An account with these details already exists."
	case status == http.StatusUnprocessableEntity:
		return "Some of the details were not accepted."
	case status == http.StatusTooManyRequests:
		return "Too many attempts. Please wait and try again."
	case status >= 500:
		return "The server could not complete the request. Please try again later."
	default:
		return "The request could not be completed."
	}
}

func isStatus(err error, status int) bool {
	var serverErr *apiclient.ServerError
	return errors.As(err, &serverErr) && serverErr.Status == status
}

// flightKey identifies a submission by form, client and exact field values.
func flightKey(formName, client string, rec form.Record) string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	h.Write([]byte(formName + "\x00" + client + "\x00"))
	for _, name := range names {
		h.Write([]byte(name + "\x00" + rec[name] + "\x00"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
