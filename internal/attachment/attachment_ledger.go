package attachment

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	attachmenterrors "go-leave/internal/attachment/errors"
	"go-leave/internal/blob"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attachment_ledger.go -destination=mock/attachment_ledger_mock.go -package=mock
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	List(ctx context.Context, leaveID uuid.UUID) ([]Attachment, error)
	Add(ctx context.Context, leaveID uuid.UUID, upload Upload) (Attachment, error)
	Remove(ctx context.Context, leaveID uuid.UUID, storedKey string) (ReconcileResult, error)
	Reconcile(ctx context.Context, leaveID uuid.UUID, toDelete []string, toAdd []Upload) (ReconcileResult, error)
	Revert(ctx context.Context, leaveID uuid.UUID, res ReconcileResult)
	Discard(ctx context.Context, leaveID uuid.UUID, storedKeys []string)
	Open(ctx context.Context, leaveID uuid.UUID, storedKey string) (Attachment, []byte, error)
}

type ledger struct {
	repo   Repository
	store  blob.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewLedger(repo Repository, store blob.Store, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("attachment.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.ledger")
	}
	return &ledger{
		repo:   repo,
		store:  store,
		now:    time.Now,
		logger: l,
	}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{
		repo:   l.repo.WithTx(tx),
		store:  l.store,
		now:    l.now,
		logger: l.logger,
	}
}

func BlobKey(leaveID uuid.UUID, storedKey string) string {
	return fmt.Sprintf("leave/%s/%s", leaveID, storedKey)
}

func (l *ledger) List(ctx context.Context, leaveID uuid.UUID) ([]Attachment, error) {
	return l.repo.ListByLeave(ctx, leaveID)
}

func (l *ledger) Add(ctx context.Context, leaveID uuid.UUID, upload Upload) (Attachment, error) {
	res, err := l.Reconcile(ctx, leaveID, nil, []Upload{upload})
	if err != nil {
		return Attachment{}, err
	}
	return res.Added[0], nil
}

// Remove deletes one attachment with the same discipline as a reconcile. The result lets the
// caller put the bytes back if its transaction does not commit.
func (l *ledger) Remove(ctx context.Context, leaveID uuid.UUID, storedKey string) (ReconcileResult, error) {
	return l.Reconcile(ctx, leaveID, []string{storedKey}, nil)
}

// Reconcile checks the resulting set against the quota, stages the new bytes, removes the
// deletions (bytes first, then rows) and finally inserts the staged rows. When a step fails the
// byte side is reverted before returning; rows are left to the caller's rollback.
func (l *ledger) Reconcile(ctx context.Context, leaveID uuid.UUID, toDelete []string, toAdd []Upload) (ReconcileResult, error) {
	current, err := l.repo.ListByLeave(ctx, leaveID)
	if err != nil {
		return ReconcileResult{}, err
	}

	if err := checkQuota(current, toDelete, toAdd); err != nil {
		return ReconcileResult{}, err
	}

	staged, err := l.stage(ctx, leaveID, toAdd)
	if err != nil {
		return ReconcileResult{}, err
	}
	result := ReconcileResult{Added: staged}

	byKey := make(map[string]Attachment, len(current))
	for _, a := range current {
		byKey[a.StoredKey] = a
	}
	for _, key := range uniqueKeys(toDelete) {
		stashed, err := l.remove(ctx, byKey[key])
		if stashed != nil {
			result.stash = append(result.stash, *stashed)
		}
		if err != nil {
			l.Revert(ctx, leaveID, result)
			return ReconcileResult{}, err
		}
		result.Removed = append(result.Removed, key)
	}

	for i := range result.Added {
		if err := l.repo.Create(ctx, &result.Added[i]); err != nil {
			l.logger.Warn("attachment row insert failed",
				zap.String("leave_id", leaveID.String()),
				zap.String("stored_key", result.Added[i].StoredKey),
				zap.Error(err),
			)
			l.Revert(ctx, leaveID, result)
			return ReconcileResult{}, err
		}
	}
	return result, nil
}

// Revert undoes the byte side of a reconcile whose rows were rolled back: staged bytes are
// discarded and removed bytes are written back.
func (l *ledger) Revert(ctx context.Context, leaveID uuid.UUID, res ReconcileResult) {
	l.Discard(ctx, leaveID, res.AddedKeys())
	for _, s := range res.stash {
		err := l.store.Put(ctx, BlobKey(leaveID, s.storedKey), bytes.NewReader(s.data), int64(len(s.data)), s.contentType)
		if err != nil {
			l.logger.Error("attachment restore failed, row points at missing bytes",
				zap.String("leave_id", leaveID.String()),
				zap.String("stored_key", s.storedKey),
				zap.Error(err),
			)
		}
	}
}

func checkQuota(current []Attachment, toDelete []string, toAdd []Upload) error {
	byKey := make(map[string]Attachment, len(current))
	for _, a := range current {
		byKey[a.StoredKey] = a
	}

	deleted := make(map[string]struct{}, len(toDelete))
	for _, key := range toDelete {
		if _, ok := byKey[key]; !ok {
			return attachmenterrors.ErrAttachmentNotFound
		}
		deleted[key] = struct{}{}
	}

	count := len(current) - len(deleted)
	var total int64
	for _, a := range current {
		if _, gone := deleted[a.StoredKey]; !gone {
			total += a.Size
		}
	}
	for _, up := range toAdd {
		if up.Size() == 0 {
			return attachmenterrors.ErrEmptyFile
		}
		count++
		total += up.Size()
	}

	if count > MaxFiles {
		return attachmenterrors.ErrTooManyFiles
	}
	if total > MaxTotalBytes {
		return attachmenterrors.ErrTotalSizeLimit
	}
	return nil
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// stage writes the bytes of every upload under a fresh key. Nothing existing is touched, and a
// failed put discards whatever was staged before it.
func (l *ledger) stage(ctx context.Context, leaveID uuid.UUID, toAdd []Upload) ([]Attachment, error) {
	staged := make([]Attachment, 0, len(toAdd))
	for _, up := range toAdd {
		a := Attachment{
			ID:          uuid.New(),
			LeaveID:     leaveID,
			FileName:    displayName(up.FileName),
			StoredKey:   uuid.NewString() + strings.ToLower(filepath.Ext(up.FileName)),
			ContentType: contentTypeOf(up),
			Size:        up.Size(),
			UploadedAt:  l.now().UTC(),
		}

		if err := l.store.Put(ctx, BlobKey(leaveID, a.StoredKey), bytes.NewReader(up.Data), a.Size, a.ContentType); err != nil {
			l.logger.Error("attachment put failed",
				zap.String("leave_id", leaveID.String()),
				zap.String("stored_key", a.StoredKey),
				zap.Error(err),
			)
			l.Discard(ctx, leaveID, ReconcileResult{Added: staged}.AddedKeys())
			return nil, attachmenterrors.ErrStorageInconsistency.WithCause(err)
		}
		staged = append(staged, a)
	}
	return staged, nil
}

// remove deletes the bytes first, then the row. A failed physical delete leaves the row in place.
// The returned stash is non-nil once the bytes are gone, so they can be restored.
func (l *ledger) remove(ctx context.Context, a Attachment) (*stashedBlob, error) {
	key := BlobKey(a.LeaveID, a.StoredKey)
	data, err := l.store.Get(ctx, key)
	if err != nil && !errors.Is(err, blob.ErrNotFound) {
		l.logger.Error("attachment read before delete failed",
			zap.String("leave_id", a.LeaveID.String()),
			zap.String("stored_key", a.StoredKey),
			zap.Error(err),
		)
		return nil, attachmenterrors.ErrStorageInconsistency.WithCause(err)
	}

	if err := l.store.Delete(ctx, key); err != nil {
		l.logger.Error("attachment physical delete failed",
			zap.String("leave_id", a.LeaveID.String()),
			zap.String("stored_key", a.StoredKey),
			zap.Error(err),
		)
		return nil, attachmenterrors.ErrStorageInconsistency.WithCause(err)
	}
	var stashed *stashedBlob
	if data != nil {
		stashed = &stashedBlob{storedKey: a.StoredKey, contentType: a.ContentType, data: data}
	}

	affected, err := l.repo.DeleteByKey(ctx, a.LeaveID, a.StoredKey)
	if err == nil && affected == 0 {
		err = errors.New("attachment row vanished before delete")
	}
	if err != nil {
		l.logger.Error("attachment row delete failed after physical delete",
			zap.String("leave_id", a.LeaveID.String()),
			zap.String("stored_key", a.StoredKey),
			zap.Error(err),
		)
		return stashed, attachmenterrors.ErrStorageInconsistency.WithCause(err)
	}
	return stashed, nil
}

func (l *ledger) Discard(ctx context.Context, leaveID uuid.UUID, storedKeys []string) {
	for _, key := range storedKeys {
		if err := l.store.Delete(ctx, BlobKey(leaveID, key)); err != nil {
			l.logger.Warn("attachment discard failed",
				zap.String("leave_id", leaveID.String()),
				zap.String("stored_key", key),
				zap.Error(err),
			)
		}
	}
}

func (l *ledger) Open(ctx context.Context, leaveID uuid.UUID, storedKey string) (Attachment, []byte, error) {
	a, err := l.repo.FindByKey(ctx, leaveID, storedKey)
	if err != nil {
		return Attachment{}, nil, err
	}
	if a == nil {
		return Attachment{}, nil, attachmenterrors.ErrAttachmentNotFound
	}

	data, err := l.store.Get(ctx, BlobKey(leaveID, storedKey))
	if errors.Is(err, blob.ErrNotFound) {
		l.logger.Error("attachment row has no bytes",
			zap.String("leave_id", leaveID.String()),
			zap.String("stored_key", storedKey),
		)
		return Attachment{}, nil, attachmenterrors.ErrAttachmentNotFound
	}
	if err != nil {
		return Attachment{}, nil, err
	}
	return *a, data, nil
}

// Locator builds the retrieval URL. Images get an inline hint.
func Locator(baseURL string, leaveID uuid.UUID, storedKey, contentType string) string {
	u := fmt.Sprintf("%s/api/v1/leave/attachments/%s/%s", strings.TrimRight(baseURL, "/"), leaveID, storedKey)
	if strings.HasPrefix(contentType, "image/") {
		u += "?inline=true"
	}
	return u
}

func displayName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

func contentTypeOf(up Upload) string {
	ct := strings.TrimSpace(up.ContentType)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mimetype.Detect(up.Data).String()
}
