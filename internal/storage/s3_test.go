package storage

import (
	"testing"

	"github.com/BruksfildServices01/fieldops/internal/config"
)

func TestURL(t *testing.T) {
	s := NewS3Store(config.S3Config{Bucket: "photos", Region: "eu-west-1"})
	if got := s.URL("jobs/1/a.webp"); got != "https://photos.s3.eu-west-1.amazonaws.com/jobs/1/a.webp" {
		t.Fatalf("unexpected url %q", got)
	}

	s = NewS3Store(config.S3Config{
		Bucket:    "photos",
		Region:    "auto",
		Endpoint:  "http://localhost:9000",
		PublicURL: "https://cdn.example.com",
	})
	if got := s.URL("jobs/1/a.webp"); got != "https://cdn.example.com/jobs/1/a.webp" {
		t.Fatalf("unexpected url %q", got)
	}
}
