package notification

import (
	"context"
	"log/slog"

	"portal/internal/domain/service"
	"portal/internal/errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebaseVerifier struct {
	client *messaging.Client
	logger *slog.Logger
}

// NewFirebaseVerifier creates a push token verifier backed by Firebase Cloud Messaging
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsPath string, logger *slog.Logger) (service.PushTokenVerifier, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseVerifier{
		client: client,
		logger: logger,
	}, nil
}

// VerifyToken validates the token with a dry-run send; nothing reaches the device
func (v *firebaseVerifier) VerifyToken(ctx context.Context, token string) (bool, error) {
	message := &messaging.Message{
		Token: token,
		Data:  map[string]string{"type": "token_check"},
	}

	if _, err := v.client.SendDryRun(ctx, message); err != nil {
		if messaging.IsInvalidArgument(err) || messaging.IsUnregistered(err) {
			v.logger.Debug("Push token rejected", slog.Any("error", err))

			return false, nil
		}

		return false, errors.Wrap(err, "failed to verify push token")
	}

	return true, nil
}

// acceptAllVerifier is used when Firebase is not configured
type acceptAllVerifier struct{}

// NewAcceptAllVerifier returns a verifier that forwards every token unchecked
func NewAcceptAllVerifier() service.PushTokenVerifier {
	return acceptAllVerifier{}
}

func (acceptAllVerifier) VerifyToken(context.Context, string) (bool, error) {
	return true, nil
}
