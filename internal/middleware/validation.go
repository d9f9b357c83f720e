package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

const maxBroadcastRecipients = 1000

// ValidateCreateBusiness validates a business registration request.
func ValidateCreateBusiness(req *model.CreateBusinessRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Industry == "" {
		return errors.New("industry is required")
	}
	if req.PhoneNumberID == "" {
		return errors.New("phone_number_id is required")
	}
	return nil
}

// ValidateSendMessage validates a manual send request.
func ValidateSendMessage(req *model.SendMessageRequest) error {
	if req.BusinessID == "" {
		return errors.New("business_id is required")
	}
	if req.To == "" {
		return errors.New("to is required")
	}
	return ValidateMessageContent(req.Message)
}

// ValidateBroadcast validates a broadcast request.
func ValidateBroadcast(req *model.BroadcastRequest) error {
	if req.BusinessID == "" {
		return errors.New("business_id is required")
	}
	if len(req.Recipients) == 0 {
		return errors.New("recipients cannot be empty")
	}
	if len(req.Recipients) > maxBroadcastRecipients {
		return errors.New("too many recipients")
	}
	return ValidateMessageContent(req.Message)
}

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > 4096 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateBusinessID validates a business id path parameter.
func ValidateBusinessID(id string) error {
	if len(id) == 0 {
		return errors.New("business ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("business ID exceeds maximum length")
	}
	return nil
}
