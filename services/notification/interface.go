package notification

import (
	"context"
	"fmt"
	"time"

	userRepo "chairhop/database/repository/user"
	"chairhop/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository) *DefaultNotificationService {
	return &DefaultNotificationService{Users: users}
}

// SendPush looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendPush(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	if utils.FCMClient == nil {
		// Push delivery disabled (no Firebase credentials configured).
		return nil
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendPush: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("SendPush: user %s has no FCM token", userID)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message: %w", err)
	}
	return nil
}

// Dispatch sends a push in the background. Delivery failures are logged and
// never reach the caller.
func Dispatch(svc NotificationService, userID, title, body string, data map[string]string) {
	if svc == nil || userID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := svc.SendPush(ctx, userID, title, body, data); err != nil {
			utils.GetLogger().Warn("push notification failed",
				zap.String("userId", userID),
				zap.Error(err))
		}
	}()
}
