package notify

import "testing"

func TestRender(t *testing.T) {
	data := map[string]string{
		"customer_name": "Ana",
		"job_date":      "2026-05-04",
	}

	cases := []struct {
		tmpl string
		want string
	}{
		{"Hi {{customer_name}}", "Hi Ana"},
		{"Hi {{ customer_name }}, see you {{job_date}}", "Hi Ana, see you 2026-05-04"},
		{"Unknown {{ missing }} stays", "Unknown {{ missing }} stays"},
		{"No tokens", "No tokens"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Render(tc.tmpl, data); got != tc.want {
			t.Errorf("Render(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestParseTriggerAndChannel(t *testing.T) {
	if got, err := ParseTrigger("Job-Completed"); err != nil || got != TriggerJobCompleted {
		t.Fatalf("expected job_completed, got %q %v", got, err)
	}
	if _, err := ParseTrigger("job_exploded"); err == nil {
		t.Fatal("expected INVALID_TRIGGER")
	}
	if got, err := ParseChannel("WhatsApp"); err != nil || got != ChannelWhatsApp {
		t.Fatalf("expected whatsapp, got %q %v", got, err)
	}
	if _, err := ParseChannel("fax"); err == nil {
		t.Fatal("expected INVALID_CHANNEL")
	}
}
