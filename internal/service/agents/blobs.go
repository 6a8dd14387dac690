package agents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cuihairu/agentdeck/internal/objstore"
	"github.com/google/uuid"
)

// readBlobs loads every ref from local storage before any remote call is made,
// so a missing file aborts the flow without side effects.
func (s *Service) readBlobs(ctx context.Context, refs ...string) ([][]byte, error) {
	out := make([][]byte, 0, len(refs))
	for _, ref := range refs {
		b, err := s.readBlob(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *Service) readBlob(ctx context.Context, ref string) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: empty storage reference", ErrBlobNotFound)
	}
	b, err := objstore.ReadAll(ctx, s.blobs, ref)
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, ref)
		}
		return nil, err
	}
	return b, nil
}

// readSource resolves a bootstrap asset: http(s) URLs are downloaded,
// anything else is a local storage reference.
func (s *Service) readSource(ctx context.Context, src string) ([]byte, error) {
	if isURL(src) {
		b, err := s.remote.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		return b, nil
	}
	return s.readBlob(ctx, src)
}

// uploadSource pushes a bootstrap asset to the remote blob store.
func (s *Service) uploadSource(ctx context.Context, src, filename string) (string, error) {
	b, err := s.readSource(ctx, src)
	if err != nil {
		return "", err
	}
	return s.upload(ctx, b, filename)
}

// stageSource uploads a bootstrap asset and returns the remote id together
// with a local storage ref for it. URL sources are copied into local storage
// under a fresh key.
func (s *Service) stageSource(ctx context.Context, src, filename string) (remoteID, localRef string, err error) {
	b, err := s.readSource(ctx, src)
	if err != nil {
		return "", "", err
	}
	if remoteID, err = s.upload(ctx, b, filename); err != nil {
		return "", "", err
	}
	if !isURL(src) {
		return remoteID, src, nil
	}
	localRef = uuid.NewString()
	if err := s.blobs.Put(ctx, localRef, bytes.NewReader(b), int64(len(b)), http.DetectContentType(b)); err != nil {
		return "", "", fmt.Errorf("store %s locally: %w", src, err)
	}
	return remoteID, localRef, nil
}

func (s *Service) upload(ctx context.Context, b []byte, filename string) (string, error) {
	id, err := s.remote.Upload(ctx, b, filename)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return id, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
