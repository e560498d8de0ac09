package video

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// ShareByEmail sends the public link of a shared video to up to five recipients
func (v *videoService) ShareByEmail(ctx context.Context, token uuid.UUID, req domain.ShareEmailRequest) error {
	recipients, err := parseRecipients(req.Recipients)
	if err != nil {
		return err
	}
	if len(req.SenderName) > maxSenderNameLength {
		return validationErr("sender name longer than %d characters", maxSenderNameLength)
	}
	if len(req.Message) > maxMessageLength {
		return validationErr("message longer than %d characters", maxMessageLength)
	}

	video, err := v.publicVideo(ctx, token)
	if err != nil {
		return err
	}

	email := domain.ShareEmail{
		To:         recipients,
		SenderName: strings.TrimSpace(req.SenderName),
		Message:    strings.TrimSpace(req.Message),
		VideoTitle: video.Title,
		ShareURL:   v.shareURL(token),
	}
	if err := v.mailer.SendShareEmail(ctx, email); err != nil {
		return fmt.Errorf("could not send share email: %w", err)
	}

	v.logger.Info("share email sent", "video_id", video.ID, "recipients", len(recipients))
	return nil
}

func parseRecipients(raw string) ([]string, error) {
	recipients := make([]string, 0, maxRecipients)
	for _, part := range strings.Split(raw, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == "" {
			continue
		}
		addr, err := mail.ParseAddress(candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %s", domain.ErrValidation, domain.ErrInvalidEmail, candidate)
		}
		recipients = append(recipients, addr.Address)
	}

	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: %w: recipients", domain.ErrValidation, domain.ErrMissingField)
	}
	if len(recipients) > maxRecipients {
		return nil, fmt.Errorf("%w: %w: %d", domain.ErrValidation, domain.ErrTooManyRecipients, len(recipients))
	}
	return recipients, nil
}
