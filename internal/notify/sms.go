package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/fieldops/internal/config"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender delivers the sms and whatsapp channels.
type TwilioSender struct {
	api  messageCreator
	from string
	wa   string
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	if !cfg.Enabled() {
		return &TwilioSender{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		api:  client.Api,
		from: cfg.PhoneNumber,
		wa:   cfg.WhatsAppNumber,
	}
}

func (s *TwilioSender) Send(_ context.Context, msg Message) error {
	if s.api == nil {
		return ErrChannelDisabled
	}
	if msg.To.Phone == "" {
		return ErrNoRecipient
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(msg.Body)

	if msg.Channel == ChannelWhatsApp {
		if s.wa == "" {
			return ErrChannelDisabled
		}
		params.SetTo(whatsapp(msg.To.Phone))
		params.SetFrom(whatsapp(s.wa))
	} else {
		params.SetTo(msg.To.Phone)
		params.SetFrom(s.from)
	}

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		slog.Debug("twilio message queued", "sid", *resp.Sid, "channel", msg.Channel)
	}
	return nil
}

func whatsapp(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
