package dna

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/shijra-api/internal/domain"
	s3infra "github.com/shijra-api/internal/infrastructure/s3"
	"github.com/shijra-api/internal/pkg/id"
	"go.uber.org/zap"
)

const maxNameLen = 100

// UploadInput is one raw DNA file received from an authenticated user.
type UploadInput struct {
	UserID      string
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*domain.DNAUpload, error)
}

type objectStore interface {
	Upload(ctx context.Context, obj s3infra.Object) (string, error)
	Delete(ctx context.Context, key string) error
	Encryption() string
}

type uploadStore interface {
	Put(ctx context.Context, u *domain.DNAUpload) error
}

type ServiceDeps struct {
	Objects objectStore
	Repo    uploadStore
	Timeout time.Duration
	Logger  *zap.Logger
}

type service struct {
	objects objectStore
	repo    uploadStore
	timeout time.Duration
	log     *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{objects: deps.Objects, repo: deps.Repo, timeout: deps.Timeout, log: log}
}

// Upload stores the file encrypted at rest and records it. If recording
// fails the object is removed again.
func (s *service) Upload(ctx context.Context, in UploadInput) (*domain.DNAUpload, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user: %w", domain.ErrUnauthorized)
	}
	if in.Body == nil {
		return nil, fmt.Errorf("dna_file: %w", domain.ErrMissingField)
	}

	h := sha256.New()
	size, err := io.Copy(h, in.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("dna_file is empty: %w", domain.ErrBadRequest)
	}
	if _, err := in.Body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}
	sum := h.Sum(nil)

	uploadID := id.New()
	name := sanitizeName(in.FileName)
	key := fmt.Sprintf("dna/%s/%s-%s", in.UserID, uploadID, name)

	if _, err := s.objects.Upload(ctx, s3infra.Object{
		Key:            key,
		Body:           in.Body,
		Size:           size,
		ContentType:    in.ContentType,
		ChecksumSHA256: base64.StdEncoding.EncodeToString(sum),
	}); err != nil {
		return nil, fmt.Errorf("store dna object: %w: %w", domain.ErrUpstream, err)
	}

	rec := &domain.DNAUpload{
		ID:         uploadID,
		UserID:     in.UserID,
		ObjectKey:  key,
		FileName:   name,
		Size:       size,
		SHA256:     hex.EncodeToString(sum),
		Encryption: s.objects.Encryption(),
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.repo.Put(storeCtx, rec); err != nil {
		if delErr := s.objects.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.Error("orphaned dna object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("record dna upload: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (s *service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// sanitizeName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so the name is safe inside an object key.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "raw-dna"
	}
	if len(out) > maxNameLen {
		out = out[len(out)-maxNameLen:]
	}
	return out
}
