package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/models"
)

type PushStore interface {
	ListForUser(ctx context.Context, userID uint) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type PushSender struct {
	cfg   config.PushConfig
	store PushStore
}

func NewPushSender(cfg config.PushConfig, store PushStore) *PushSender {
	return &PushSender{cfg: cfg, store: store}
}

type pushBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers to every browser the user registered. Subscriptions the push
// service reports as gone are pruned.
func (s *PushSender) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Enabled() {
		return ErrChannelDisabled
	}
	if msg.To.UserID == nil {
		return ErrNoRecipient
	}

	subs, err := s.store.ListForUser(ctx, *msg.To.UserID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return ErrNoRecipient
	}

	payload, err := json.Marshal(pushBody{Title: msg.Subject, Body: msg.Body})
	if err != nil {
		return err
	}

	var lastErr error
	delivered := 0
	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.cfg.Subscriber,
			VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
			TTL:             3600,
		})
		if err != nil {
			lastErr = err
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
			if err := s.store.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
				slog.Warn("prune push subscription failed", "error", err)
			}
		case resp.StatusCode >= 400:
			lastErr = fmt.Errorf("push service returned %d", resp.StatusCode)
		default:
			delivered++
		}
	}

	if delivered == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}
