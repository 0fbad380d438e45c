package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/BradenHooton/wikiboard/internal/models"
	pkglogger "github.com/BradenHooton/wikiboard/pkg/logger"
)

// Notifier tells an entry owner about a moderation decision
type Notifier interface {
	NotifyModerationDecision(ctx context.Context, owner *models.User, entry *models.WikiEntry) error
}

// SESAPI is the subset of the SES client used for sending mail
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends moderation emails using AWS SES
type SESNotifier struct {
	client      SESAPI
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

// NewSESNotifier loads the default AWS config for region and builds an SES notifier
func NewSESNotifier(ctx context.Context, region, fromAddress, baseURL string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, baseURL, logger), nil
}

// NewSESNotifierWithClient builds a notifier around an existing SES client
func NewSESNotifierWithClient(client SESAPI, fromAddress, baseURL string, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{
		client:      client,
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// NotifyModerationDecision emails the owner the new status of their entry.
// Owners without an email address are skipped.
func (n *SESNotifier) NotifyModerationDecision(ctx context.Context, owner *models.User, entry *models.WikiEntry) error {
	if owner == nil || owner.Email == "" {
		return nil
	}

	subject, textBody := moderationMessage(entry, n.baseURL)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{owner.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to send moderation email via SES",
			slog.String("email", pkglogger.SanitizedEmail(owner.Email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.InfoContext(ctx, "moderation email sent",
		slog.String("email", pkglogger.SanitizedEmail(owner.Email)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

func moderationMessage(entry *models.WikiEntry, baseURL string) (subject, body string) {
	link := fmt.Sprintf("%s/entries/%s", baseURL, entry.ID)

	switch entry.Status {
	case models.EntryStatusApproved:
		subject = "Your entry was approved"
		body = fmt.Sprintf("Your entry %q has been approved and is now public.\n\n%s\n", entry.Title, link)
	case models.EntryStatusRejected:
		subject = "Your entry was rejected"
		body = fmt.Sprintf("Your entry %q was rejected by a moderator. You can edit it and it will be reviewed again.\n\n%s\n", entry.Title, link)
	default:
		subject = "Your entry is awaiting review"
		body = fmt.Sprintf("Your entry %q was moved back to the review queue.\n\n%s\n", entry.Title, link)
	}

	return subject, body
}

// NoopNotifier logs decisions instead of sending them
type NoopNotifier struct {
	logger *slog.Logger
}

func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) NotifyModerationDecision(ctx context.Context, owner *models.User, entry *models.WikiEntry) error {
	n.logger.DebugContext(ctx, "moderation notification skipped",
		slog.String("entry_id", entry.ID),
		slog.String("status", string(entry.Status)))
	return nil
}
