// Package forms validates user input before it reaches a store.
// Every failure is a *core.ValidationError carrying the message shown to the user.
package forms

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/notely/pkg/core"
)

// Messages shown for failed rules.
const (
	MsgFillAllFields         = "Please fill in all fields"
	MsgPasswordsMismatch     = "Passwords do not match"
	MsgUsernameEmpty         = "Username cannot be empty"
	MsgPasswordFieldsMissing = "All password fields are required"
	MsgNewPasswordsMismatch  = "New passwords do not match"
	MsgTagNameEmpty          = "Tag name cannot be empty"
	MsgConfirmDeletion       = "Please type DELETE to confirm account deletion"
	MsgNoteEmpty             = "Note is empty"
)

// DeleteConfirmation is the word a user types to confirm account deletion.
const DeleteConfirmation = "DELETE"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// messages maps "Field.tag" (or "tag" for any field) to the user message.
type messages map[string]string

func check(form any, msgs messages) error {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	msg, ok := msgs[first.Field()+"."+first.Tag()]
	if !ok {
		msg = msgs[first.Tag()]
	}
	if msg == "" {
		msg = first.Error()
	}
	return &core.ValidationError{Field: first.Field(), Message: msg}
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `validate:"notblank"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Validate checks that every field is set and both passwords match.
func (f Registration) Validate() error {
	return check(f, messages{
		"notblank":                MsgFillAllFields,
		"required":                MsgFillAllFields,
		"ConfirmPassword.eqfield": MsgPasswordsMismatch,
	})
}

// Login is the sign-in form.
type Login struct {
	Username string `validate:"notblank"`
	Password string `validate:"required"`
}

// Validate checks that both fields are set.
func (f Login) Validate() error {
	return check(f, messages{
		"notblank": MsgFillAllFields,
		"required": MsgFillAllFields,
	})
}

// UsernameChange is the rename-account form.
type UsernameChange struct {
	Username string `validate:"notblank"`
}

// Validate checks the new username is not blank.
func (f UsernameChange) Validate() error {
	return check(f, messages{"notblank": MsgUsernameEmpty})
}

// Patch returns the account patch for the trimmed username.
func (f UsernameChange) Patch() core.AccountPatch {
	return core.AccountPatch{Username: core.Ptr(strings.TrimSpace(f.Username))}
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

// Validate checks every field is set and the new passwords match.
func (f PasswordChange) Validate() error {
	return check(f, messages{
		"required":                MsgPasswordFieldsMissing,
		"ConfirmPassword.eqfield": MsgNewPasswordsMismatch,
	})
}

// Patch returns the account patch carrying both passwords.
func (f PasswordChange) Patch() core.AccountPatch {
	return core.AccountPatch{
		CurrentPassword: core.Ptr(f.CurrentPassword),
		Password:        core.Ptr(f.NewPassword),
	}
}

// AccountDeletion is the delete-account confirmation form.
type AccountDeletion struct {
	Confirmation string `validate:"eq=DELETE"`
}

// Validate checks the user typed the confirmation word exactly.
func (f AccountDeletion) Validate() error {
	return check(f, messages{"eq": MsgConfirmDeletion})
}

// TagName is the create/rename tag form.
type TagName struct {
	Name string `validate:"notblank"`
}

// Validate checks the name is not blank.
func (f TagName) Validate() error {
	return check(f, messages{"notblank": MsgTagNameEmpty})
}

// Value returns the trimmed name.
func (f TagName) Value() string {
	return strings.TrimSpace(f.Name)
}

// Note is the note editor form.
type Note struct {
	Title    string `validate:"required_without=Content"`
	Content  string
	Tags     []core.ID
	Reminder *time.Time
	Pinned   bool
}

// Draft trims the text fields and returns the create body. A note whose
// title and content are both blank is not saved.
func (f Note) Draft() (core.NoteDraft, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	if err := check(f, messages{"required_without": MsgNoteEmpty}); err != nil {
		return core.NoteDraft{}, err
	}

	tags := f.Tags
	if tags == nil {
		tags = []core.ID{}
	}
	return core.NoteDraft{
		Title:    f.Title,
		Content:  f.Content,
		Tags:     tags,
		Reminder: f.Reminder,
		Pinned:   f.Pinned,
	}, nil
}
