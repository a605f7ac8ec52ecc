package jobmedia

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/media"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
	"github.com/BruksfildServices01/fieldops/internal/usecase/usecasetest"
)

type fakeRepo struct {
	jobs       map[uint]*models.Job
	media      map[uint]*models.JobMedia
	nextID     uint
	failCreate error
}

func newFakeRepo() *fakeRepo {
	staff := uint(7)
	return &fakeRepo{
		jobs: map[uint]*models.Job{
			1: {ID: 1, AssignedTo: &staff},
			2: {ID: 2},
		},
		media: map[uint]*models.JobMedia{},
	}
}

func (f *fakeRepo) GetJob(_ context.Context, id uint) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return j, nil
}

func (f *fakeRepo) CreateMedia(_ context.Context, m *models.JobMedia) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	m.ID = f.nextID
	f.media[m.ID] = m
	return nil
}

func (f *fakeRepo) GetMedia(_ context.Context, id uint) (*models.JobMedia, error) {
	m, ok := f.media[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) ListMedia(_ context.Context, jobID uint) ([]models.JobMedia, error) {
	var out []models.JobMedia
	for _, m := range f.media {
		if m.JobID == jobID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteMedia(_ context.Context, id uint) error {
	if _, ok := f.media[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.media, id)
	return nil
}

type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func (s *fakeStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = body
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

var (
	admin = usecase.Actor{ID: 1, Admin: true}
	staff = usecase.Actor{ID: 7}
	other = usecase.Actor{ID: 9}
)

func photo(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresWebPAndAnnounces(t *testing.T) {
	repo, store, rec := newFakeRepo(), &fakeStore{}, &usecasetest.Recorder{}
	uc := NewUploadPhoto(repo, store, rec.Effects())

	m, err := uc.Execute(context.Background(), staff, UploadPhotoInput{
		JobID:     1,
		MediaType: "after",
		Data:      photo(t),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if m.MediaType != media.TypeAfter {
		t.Fatalf("expected canonical media type, got %q", m.MediaType)
	}
	if !strings.HasPrefix(m.FileKey, "jobs/1/") || !strings.HasSuffix(m.FileKey, media.Extension) {
		t.Fatalf("unexpected key %q", m.FileKey)
	}
	if _, ok := store.objects[m.FileKey]; !ok {
		t.Fatalf("object was not stored")
	}
	if m.UploadedBy == nil || *m.UploadedBy != staff.ID {
		t.Fatalf("uploader not recorded")
	}
	if !usecasetest.Contains(rec.EventNames(), realtime.EventPhotoUploaded) {
		t.Fatalf("expected %s, got %v", realtime.EventPhotoUploaded, rec.EventNames())
	}
	if !usecasetest.Contains(rec.Actions(), "photo_uploaded") {
		t.Fatalf("expected photo_uploaded activity, got %v", rec.Actions())
	}
}

func TestUploadRejectsUnknownMediaType(t *testing.T) {
	uc := NewUploadPhoto(newFakeRepo(), &fakeStore{}, usecase.Effects{})

	_, err := uc.Execute(context.Background(), admin, UploadPhotoInput{JobID: 1, MediaType: "Selfie", Data: photo(t)})
	if !httperr.IsBusiness(err, httperr.CodeInvalidMediaType) {
		t.Fatalf("expected INVALID_MEDIA_TYPE, got %v", err)
	}
}

func TestUploadForbiddenForOtherStaff(t *testing.T) {
	uc := NewUploadPhoto(newFakeRepo(), &fakeStore{}, usecase.Effects{})

	_, err := uc.Execute(context.Background(), other, UploadPhotoInput{JobID: 1, MediaType: "Before", Data: photo(t)})
	if !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	uc := NewUploadPhoto(newFakeRepo(), nil, usecase.Effects{})

	_, err := uc.Execute(context.Background(), admin, UploadPhotoInput{JobID: 1, MediaType: "Before", Data: photo(t)})
	if !httperr.IsBusiness(err, httperr.CodeStorageDisabled) {
		t.Fatalf("expected STORAGE_DISABLED, got %v", err)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	uc := NewUploadPhoto(newFakeRepo(), &fakeStore{}, usecase.Effects{})

	_, err := uc.Execute(context.Background(), admin, UploadPhotoInput{JobID: 1, MediaType: "Before", Data: []byte("hello")})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUploadRemovesObjectWhenRowFails(t *testing.T) {
	repo, store := newFakeRepo(), &fakeStore{}
	repo.failCreate = errors.New("insert failed")
	uc := NewUploadPhoto(repo, store, usecase.Effects{})

	if _, err := uc.Execute(context.Background(), admin, UploadPhotoInput{JobID: 2, MediaType: "Progress", Data: photo(t)}); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.deleted) != 1 || len(store.objects) != 0 {
		t.Fatalf("expected stored object to be removed, deleted=%v", store.deleted)
	}
}

func TestDeletePhoto(t *testing.T) {
	repo, store := newFakeRepo(), &fakeStore{}
	up := NewUploadPhoto(repo, store, usecase.Effects{})
	m, err := up.Execute(context.Background(), staff, UploadPhotoInput{JobID: 1, MediaType: "Before", Data: photo(t)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	del := NewDeletePhoto(repo, store, usecase.Effects{})
	if err := del.Execute(context.Background(), other, m.ID); !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for other staff, got %v", err)
	}
	if err := del.Execute(context.Background(), staff, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != m.FileKey {
		t.Fatalf("object not deleted: %v", store.deleted)
	}
	if err := del.Execute(context.Background(), admin, m.ID); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}
