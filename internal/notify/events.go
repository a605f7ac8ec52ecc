package notify

import (
	"strings"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
)

// Trigger events an automation can subscribe to.
const (
	TriggerJobCreated       = "job_created"
	TriggerJobAssigned      = "job_assigned"
	TriggerJobCompleted     = "job_completed"
	TriggerJobCancelled     = "job_cancelled"
	TriggerInvoiceCreated   = "invoice_created"
	TriggerInvoicePaid      = "invoice_paid"
	TriggerJobFollowUp      = "job_follow_up"
	TriggerInvoiceDueSoon   = "invoice_due_soon"
	TriggerJobReminder      = "job_reminder"
	TriggerCustomerInactive = "customer_inactive"
)

var triggers = []string{
	TriggerJobCreated,
	TriggerJobAssigned,
	TriggerJobCompleted,
	TriggerJobCancelled,
	TriggerInvoiceCreated,
	TriggerInvoicePaid,
	TriggerJobFollowUp,
	TriggerInvoiceDueSoon,
	TriggerJobReminder,
	TriggerCustomerInactive,
}

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

var channels = []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelPush}

func Triggers() []string {
	return append([]string(nil), triggers...)
}

func ParseTrigger(raw string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "-", "_")
	for _, known := range triggers {
		if t == known {
			return t, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeInvalidTrigger)
}

// ParseChannel accepts the legacy "Email"/"SMS"/"WhatsApp" spellings.
func ParseChannel(raw string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range channels {
		if c == known {
			return c, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeInvalidChannel)
}
