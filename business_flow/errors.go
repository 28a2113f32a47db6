// Package businessflow contains the core business logic and use cases for marketing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Customer-related errors
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Campaign-related errors
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignAccessDenied   = errors.New("campaign access denied")
	ErrCampaignNameRequired   = errors.New("campaign name is required")
	ErrRecipientsRequired     = errors.New("at least one recipient is required")
	ErrNoValidRecipients      = errors.New("no valid recipients after validation")
	ErrTemplateNameRequired   = errors.New("template name is required for template campaigns")
	ErrMessageBodyRequired    = errors.New("message body is required for text campaigns")
	ErrSubjectRequired        = errors.New("email subject is required")
	ErrHTMLBodyRequired       = errors.New("email body is required")
	ErrScheduleTimeNotPresent = errors.New("schedule time is not present")
	ErrScheduleTimeInPast     = errors.New("schedule time is in the past")

	// Social-related errors
	ErrPostNotFound           = errors.New("post not found")
	ErrPostAccessDenied       = errors.New("post access denied")
	ErrAdNotFound             = errors.New("ad not found")
	ErrAdAccessDenied         = errors.New("ad access denied")
	ErrUnsupportedPlatform    = errors.New("unsupported platform")
	ErrAccountNotConnected    = errors.New("no connected account for platform")
	ErrAccountNotFound        = errors.New("social account not found")
	ErrAccountAccessDenied    = errors.New("social account access denied")
	ErrCaptionOrMediaRequired = errors.New("caption or media is required")

	// OAuth connect errors
	ErrOAuthStateInvalid   = errors.New("oauth state is invalid or expired")
	ErrOAuthAccessDenied   = errors.New("authorization was denied by the user")
	ErrOAuthCodeMissing    = errors.New("authorization code is missing")
	ErrOAuthExchangeFailed = errors.New("authorization code exchange failed")

	// Proposal errors
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrProposalAccessDenied   = errors.New("proposal access denied")
	ErrProposalNotSendable    = errors.New("proposal cannot be sent in its current status")
	ErrRecipientEmailRequired = errors.New("recipient email is required")
	ErrPromptRequired         = errors.New("prompt is required")
	ErrTitleRequired          = errors.New("title is required")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsNoValidRecipients(err error) bool {
	return errors.Is(err, ErrNoValidRecipients)
}

func IsScheduleTimeInPast(err error) bool {
	return errors.Is(err, ErrScheduleTimeInPast)
}

func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

func IsPostAccessDenied(err error) bool {
	return errors.Is(err, ErrPostAccessDenied)
}

func IsAdAccessDenied(err error) bool {
	return errors.Is(err, ErrAdAccessDenied)
}

func IsProposalAccessDenied(err error) bool {
	return errors.Is(err, ErrProposalAccessDenied)
}

func IsAdNotFound(err error) bool {
	return errors.Is(err, ErrAdNotFound)
}

func IsUnsupportedPlatform(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform)
}

func IsAccountNotConnected(err error) bool {
	return errors.Is(err, ErrAccountNotConnected)
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsOAuthStateInvalid(err error) bool {
	return errors.Is(err, ErrOAuthStateInvalid)
}

func IsOAuthAccessDenied(err error) bool {
	return errors.Is(err, ErrOAuthAccessDenied)
}

func IsOAuthCodeMissing(err error) bool {
	return errors.Is(err, ErrOAuthCodeMissing)
}

func IsOAuthExchangeFailed(err error) bool {
	return errors.Is(err, ErrOAuthExchangeFailed)
}

func IsProposalNotFound(err error) bool {
	return errors.Is(err, ErrProposalNotFound)
}

func IsProposalNotSendable(err error) bool {
	return errors.Is(err, ErrProposalNotSendable)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
