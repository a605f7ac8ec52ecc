package notify

import (
	"strconv"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/models"
)

type Recipient struct {
	Name   string
	Email  string
	Phone  string
	UserID *uint
}

// Payload is the context handed to automations for one business event.
type Payload struct {
	Recipient  Recipient
	Data       map[string]string
	EntityType string
	EntityID   uint
	ActorID    *uint
	RequestID  string

	// Push is the built-in web push for the event. It is sent only when no
	// push automation matched, so the recipient gets one push per event.
	Push *Message
}

const dateLayout = "2006-01-02"

// JobPayload addresses the customer of j and exposes the job fields to templates.
func JobPayload(j *models.Job) Payload {
	data := map[string]string{
		"job_id":         strconv.FormatUint(uint64(j.ID), 10),
		"job_date":       j.JobDate.Format(dateLayout),
		"job_time":       j.JobTime,
		"location":       j.Location,
		"status":         j.Status,
		"notes":          j.Notes,
		"customer_name":  j.Customer.Name,
		"customer_email": j.Customer.Email,
		"customer_phone": j.Customer.Phone,
		"service_name":   j.Service.Name,
		"service_price":  money(j.ServicePrice),
	}
	if j.AssignedUser != nil {
		data["staff_name"] = j.AssignedUser.Name
		data["staff_email"] = j.AssignedUser.Email
		data["staff_phone"] = j.AssignedUser.Phone
	}

	return Payload{
		Recipient: Recipient{
			Name:  j.Customer.Name,
			Email: j.Customer.Email,
			Phone: j.Customer.Phone,
		},
		Data:       data,
		EntityType: "job",
		EntityID:   j.ID,
	}
}

// StaffPayload is JobPayload addressed to the assigned staff member.
func StaffPayload(j *models.Job) Payload {
	p := JobPayload(j)
	if j.AssignedUser != nil {
		p.Recipient = Recipient{
			Name:   j.AssignedUser.Name,
			Email:  j.AssignedUser.Email,
			Phone:  j.AssignedUser.Phone,
			UserID: j.AssignedTo,
		}
	}
	return p
}

func InvoicePayload(inv *models.Invoice) Payload {
	data := map[string]string{
		"invoice_id":     strconv.FormatUint(uint64(inv.ID), 10),
		"invoice_number": inv.InvoiceNumber,
		"amount":         money(inv.Amount),
		"status":         inv.Status,
		"issued_at":      inv.IssuedAt.Format(dateLayout),
		"due_date":       inv.DueDate.Format(dateLayout),
		"payment_link":   inv.PaymentLink,
		"job_id":         strconv.FormatUint(uint64(inv.JobID), 10),
	}
	if inv.PaidDate != nil {
		data["paid_date"] = inv.PaidDate.Format(dateLayout)
	}

	var rcpt Recipient
	if inv.Customer != nil {
		rcpt = Recipient{Name: inv.Customer.Name, Email: inv.Customer.Email, Phone: inv.Customer.Phone}
		data["customer_name"] = inv.Customer.Name
		data["customer_email"] = inv.Customer.Email
	}
	if inv.Job != nil {
		data["service_name"] = inv.Job.Service.Name
		data["job_date"] = inv.Job.JobDate.Format(dateLayout)
	}

	return Payload{
		Recipient:  rcpt,
		Data:       data,
		EntityType: "invoice",
		EntityID:   inv.ID,
	}
}

func CustomerPayload(c *models.Customer, lastJob time.Time) Payload {
	return Payload{
		Recipient: Recipient{Name: c.Name, Email: c.Email, Phone: c.Phone},
		Data: map[string]string{
			"customer_name":  c.Name,
			"customer_email": c.Email,
			"customer_phone": c.Phone,
			"last_job_date":  lastJob.Format(dateLayout),
		},
		EntityType: "customer",
		EntityID:   c.ID,
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
