package logic

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/cuihairu/agentdeck/internal/objstore"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

const uploadPath = "/api/storage/upload/"

type StorageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStorageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StorageLogic {
	return &StorageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// UploadURL issues a one-time upload target.
func (l *StorageLogic) UploadURL() (*types.UploadURLResponse, error) {
	ticket, err := l.svcCtx.Tickets.Issue(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.UploadURLResponse{Url: uploadPath + ticket}, nil
}

// Upload stores body under a fresh key and then redeems the ticket, so a
// failed write leaves the ticket usable. A ticket redeemed concurrently by
// another upload discards this one's blob.
func (l *StorageLogic) Upload(req *types.UploadRequest, body io.Reader, size int64, contentType string) (*types.UploadResponse, error) {
	if req == nil || strings.TrimSpace(req.Ticket) == "" {
		return nil, ErrInvalidRequest
	}
	if err := l.svcCtx.Tickets.Check(l.ctx, req.Ticket); err != nil {
		return nil, err
	}
	key := uuid.NewString()
	if err := l.svcCtx.Blobs.Put(l.ctx, key, body, size, contentType); err != nil {
		return nil, err
	}
	if err := l.svcCtx.Tickets.Redeem(l.ctx, req.Ticket); err != nil {
		if derr := l.svcCtx.Blobs.Delete(l.ctx, key); derr != nil {
			l.Errorf("discard upload %s: %v", key, derr)
		}
		return nil, err
	}
	l.Infof("stored upload %s (%s)", key, contentType)
	return &types.UploadResponse{StorageId: key}, nil
}

// FileURL resolves a display URL; Url is nil when the blob does not exist.
func (l *StorageLogic) FileURL(req *types.FileURLRequest) (*types.FileURLResponse, error) {
	if req == nil || strings.TrimSpace(req.StorageId) == "" {
		return nil, ErrInvalidRequest
	}
	ok, err := l.svcCtx.Blobs.Exists(l.ctx, req.StorageId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.FileURLResponse{}, nil
	}
	u, err := l.svcCtx.Blobs.SignedURL(l.ctx, req.StorageId, http.MethodGet, l.svcCtx.Config.Storage.SignedURLTTL)
	if err != nil {
		return nil, err
	}
	return &types.FileURLResponse{Url: &u}, nil
}

// File loads the blob and sniffs its content type.
func (l *StorageLogic) File(req *types.FileRequest) ([]byte, string, error) {
	if req == nil || strings.TrimSpace(req.StorageId) == "" {
		return nil, "", ErrInvalidRequest
	}
	b, err := objstore.ReadAll(l.ctx, l.svcCtx.Blobs, req.StorageId)
	if err != nil {
		return nil, "", err
	}
	return b, http.DetectContentType(b), nil
}
