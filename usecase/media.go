package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"vidtube/domain/apperror"
	"vidtube/domain/model"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/storage"
	"vidtube/infrastructure/upload"
)

func release(files ...*upload.File) {
	upload.ReleaseAll(files...)
}

func store(ctx context.Context, media storage.IMediaStorage, file *upload.File, kind model.MediaKind) (*model.Media, error) {
	stored, err := media.Store(ctx, file.Path, kind)
	if err != nil {
		return nil, apperror.Upstream("failed to upload "+string(kind), err)
	}
	return stored, nil
}

// discard deletes a stored object without failing the caller.
func discard(ctx context.Context, media storage.IMediaStorage, ref string) {
	if ref == "" {
		return
	}
	if err := media.Delete(context.WithoutCancel(ctx), ref); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"ref":   ref,
			"error": err,
		}).Warn("Could not delete media object")
	}
}

// storePair uploads a video and its thumbnail concurrently. When either
// half fails the other is deleted before the error is returned.
func storePair(ctx context.Context, media storage.IMediaStorage, video, thumbnail *upload.File) (*model.Media, *model.Media, error) {
	var videoMedia, thumbMedia *model.Media

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stored, err := store(gctx, media, video, model.MediaVideo)
		videoMedia = stored
		return err
	})
	g.Go(func() error {
		stored, err := store(gctx, media, thumbnail, model.MediaThumbnail)
		thumbMedia = stored
		return err
	})

	if err := g.Wait(); err != nil {
		for _, done := range []*model.Media{videoMedia, thumbMedia} {
			if done == nil {
				continue
			}
			if derr := media.Delete(context.WithoutCancel(ctx), done.URL); derr != nil {
				logger.GetLogger().WithFields(map[string]interface{}{
					"ref":   done.URL,
					"error": derr,
				}).Error("Compensating delete failed; object is orphaned")
			}
		}
		return nil, nil, err
	}
	return videoMedia, thumbMedia, nil
}
