package jobmedia

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	mediadomain "github.com/BruksfildServices01/fieldops/internal/domain/jobmedia"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/media"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/realtime"
	"github.com/BruksfildServices01/fieldops/internal/storage"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type UploadPhotoInput struct {
	JobID     uint
	MediaType string
	Notes     string
	Data      []byte
}

type UploadPhoto struct {
	repo  mediadomain.Repository
	store storage.ObjectStore
	fx    usecase.Effects
}

func NewUploadPhoto(repo mediadomain.Repository, store storage.ObjectStore, fx usecase.Effects) *UploadPhoto {
	return &UploadPhoto{repo: repo, store: store, fx: fx}
}

func (uc *UploadPhoto) Execute(
	ctx context.Context,
	actor usecase.Actor,
	in UploadPhotoInput,
) (*models.JobMedia, error) {

	mediaType, err := media.ParseType(in.MediaType)
	if err != nil {
		return nil, err
	}
	if uc.store == nil {
		return nil, httperr.ErrBusiness(httperr.CodeStorageDisabled)
	}

	j, err := ownedJob(ctx, uc.repo, actor, in.JobID)
	if err != nil {
		return nil, err
	}

	body, err := media.Normalize(in.Data)
	if errors.Is(err, media.ErrNotImage) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "file must be a JPEG, PNG or WebP image")
	}
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("jobs/%d/%s%s", j.ID, uuid.NewString(), media.Extension)
	url, err := uc.store.Put(ctx, key, body, media.ContentType)
	if err != nil {
		return nil, err
	}

	m := &models.JobMedia{
		JobID:      j.ID,
		MediaType:  mediaType,
		FileKey:    key,
		FileURL:    url,
		UploadedBy: actor.Ref(),
		Notes:      in.Notes,
	}
	if err := uc.repo.CreateMedia(ctx, m); err != nil {
		if derr := uc.store.Delete(ctx, key); derr != nil {
			logging.FromContext(ctx).Warn("orphaned media object", "key", key, "error", derr)
		}
		return nil, err
	}

	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "photo_uploaded",
		EntityType: "job",
		EntityID:   audit.ID(j.ID),
		Detail:     map[string]any{"media_id": m.ID, "media_type": mediaType},
	})
	uc.fx.Emit(ctx, realtime.EventPhotoUploaded, map[string]any{
		"id":         m.ID,
		"job_id":     j.ID,
		"media_type": mediaType,
		"file_url":   url,
	}, realtime.RoomAdmin)

	return m, nil
}

// ownedJob loads the job and checks the actor may act on it.
func ownedJob(ctx context.Context, repo mediadomain.Repository, actor usecase.Actor, id uint) (*models.Job, error) {
	j, err := repo.GetJob(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.AssignedTo) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return j, nil
}
