package jobmedia

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/fieldops/internal/audit"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	mediadomain "github.com/BruksfildServices01/fieldops/internal/domain/jobmedia"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/logging"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/storage"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type ListPhotos struct {
	repo mediadomain.Repository
}

func NewListPhotos(repo mediadomain.Repository) *ListPhotos {
	return &ListPhotos{repo: repo}
}

func (uc *ListPhotos) Execute(ctx context.Context, actor usecase.Actor, jobID uint) ([]models.JobMedia, error) {
	if _, err := ownedJob(ctx, uc.repo, actor, jobID); err != nil {
		return nil, err
	}
	return uc.repo.ListMedia(ctx, jobID)
}

// ------------------------------------------------------

// DeletePhoto removes the row first; a failed object delete only leaves an
// unreferenced object behind.
type DeletePhoto struct {
	repo  mediadomain.Repository
	store storage.ObjectStore
	fx    usecase.Effects
}

func NewDeletePhoto(repo mediadomain.Repository, store storage.ObjectStore, fx usecase.Effects) *DeletePhoto {
	return &DeletePhoto{repo: repo, store: store, fx: fx}
}

func (uc *DeletePhoto) Execute(ctx context.Context, actor usecase.Actor, mediaID uint) error {
	m, err := uc.repo.GetMedia(ctx, mediaID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return err
	}

	if !actor.Admin {
		if _, err := ownedJob(ctx, uc.repo, actor, m.JobID); err != nil {
			return err
		}
	}

	if err := uc.repo.DeleteMedia(ctx, m.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return err
	}

	if uc.store != nil {
		if err := uc.store.Delete(ctx, m.FileKey); err != nil {
			logging.FromContext(ctx).Warn("delete media object failed", "key", m.FileKey, "error", err)
		}
	}

	uc.fx.Record(audit.Event{
		ActorID:    actor.Ref(),
		Action:     "photo_deleted",
		EntityType: "job",
		EntityID:   audit.ID(m.JobID),
		Detail:     map[string]any{"media_id": m.ID},
	})
	return nil
}
