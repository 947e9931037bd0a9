package matrix

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

// Publisher posts plain-text alerts to one Matrix room.
// It implements relay.Publisher.
type Publisher struct {
	client   *mautrix.Client
	roomID   id.RoomID
	user     string
	password string
	logger   *slog.Logger
}

// NewPublisher creates an unauthenticated client for homeserverURL. Call
// Connect before Publish.
func NewPublisher(homeserverURL, roomID, user, password string, logger *slog.Logger) (*Publisher, error) {
	client, err := mautrix.NewClient(homeserverURL, "", "")
	if err != nil {
		return nil, fmt.Errorf("create matrix client: %w", err)
	}
	return &Publisher{
		client:   client,
		roomID:   id.RoomID(roomID),
		user:     user,
		password: password,
		logger:   logger,
	}, nil
}

// Connect logs in with the password credentials and joins the configured room.
func (p *Publisher) Connect(ctx context.Context) error {
	resp, err := p.client.Login(ctx, &mautrix.ReqLogin{
		Type: mautrix.AuthTypePassword,
		Identifier: mautrix.UserIdentifier{
			Type: mautrix.IdentifierTypeUser,
			User: p.user,
		},
		Password:                 p.password,
		InitialDeviceDisplayName: "storm-alert-relay",
		StoreCredentials:         true,
	})
	if err != nil {
		return fmt.Errorf("matrix login: %w", err)
	}
	p.logger.Info("matrix login succeeded", "user_id", resp.UserID, "device_id", resp.DeviceID)

	if _, err := p.client.JoinRoomByID(ctx, p.roomID); err != nil {
		return fmt.Errorf("join matrix room %s: %w", p.roomID, err)
	}
	p.logger.Info("joined matrix room", "room_id", p.roomID)
	return nil
}

// Publish sends text as an m.text message. Failures are wrapped in domain.ErrPublish.
func (p *Publisher) Publish(ctx context.Context, text string) error {
	resp, err := p.client.SendText(ctx, p.roomID, text)
	if err != nil {
		return fmt.Errorf("%w: matrix room %s: %w", domain.ErrPublish, p.roomID, err)
	}
	p.logger.Debug("matrix message sent", "room_id", p.roomID, "event_id", resp.EventID)
	return nil
}

// Close logs out the session. It is a no-op if Connect never succeeded.
func (p *Publisher) Close(ctx context.Context) error {
	if p.client.AccessToken == "" {
		return nil
	}
	if _, err := p.client.Logout(ctx); err != nil {
		return fmt.Errorf("matrix logout: %w", err)
	}
	p.client.AccessToken = ""
	p.logger.Info("matrix session logged out")
	return nil
}
