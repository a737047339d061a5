package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/dbx"
	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/mapper"
	"github.com/dmitrijs2005/storeit/internal/server/metrics"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/dmitrijs2005/storeit/internal/server/objectstore"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Operation names used in logs, metrics and BackendError.
const (
	OpUpload      = "upload"
	OpGetFiles    = "getFiles"
	OpRename      = "renameFile"
	OpUpdateUsers = "updateFileUsers"
	OpDelete      = "deleteFile"
)

// ObjectStore is the object storage sub-client used by FileService.
type ObjectStore interface {
	CreateFile(ctx context.Context, id, name string, body []byte) (*objectstore.Object, error)
	DeleteFile(ctx context.Context, id string) error
}

// Session resolves the user the current request runs as.
type Session interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Revalidator receives the cache invalidation signal after a change.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

// UploadParams carries one upload. OwnerID and AccountID default to the
// current user's.
type UploadParams struct {
	Name      string
	Content   []byte
	OwnerID   string
	AccountID string
	Path      string
}

type RenameParams struct {
	FileID string
	Name   string
	// Extension is appended to Name after a dot.
	Extension string
	Path      string
}

type UpdateUsersParams struct {
	FileID string
	Emails []string
	Path   string
}

type DeleteParams struct {
	FileID       string
	BucketFileID string
	Path         string
}

// FileService is the file command layer: each operation composes one or two
// backend calls and a revalidation signal. Operations are attempted once.
type FileService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	store         ObjectStore
	urls          mapper.URLBuilder
	session       Session
	revalidator   Revalidator
	logger        logging.Logger
	maxUploadSize int64
	newID         func() string
}

// NewFileService wires the command layer to its backend handle.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, urls mapper.URLBuilder,
	session Session, revalidator Revalidator, logger logging.Logger, maxUploadSize int64) *FileService {
	return &FileService{
		db:            db,
		repomanager:   m,
		store:         store,
		urls:          urls,
		session:       session,
		revalidator:   revalidator,
		logger:        logger.With("module", "file_service"),
		maxUploadSize: maxUploadSize,
		newID:         func() string { return uuid.NewString() },
	}
}

// Upload stores the object under a fresh id, then creates its document.
// When the document cannot be created the object is deleted once; if that
// deletion fails too the returned UploadError is marked Orphaned and the
// pending record is left for the sweeper.
func (s *FileService) Upload(ctx context.Context, p UploadParams) (*models.File, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, s.fail(ctx, OpUpload, "upload requires a signed-in user", err)
	}

	ownerID, accountID := p.OwnerID, p.AccountID
	if ownerID == "" {
		ownerID = user.ID
	}
	if accountID == "" {
		accountID = user.AccountID
	}
	if ownerID != user.ID {
		return nil, s.fail(ctx, OpUpload, "upload rejected",
			fmt.Errorf("%w: owner must be the current user", common.ErrValidation))
	}

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return nil, s.fail(ctx, OpUpload, "upload rejected", fmt.Errorf("%w: file name is empty", common.ErrValidation))
	case len(p.Content) == 0:
		return nil, s.fail(ctx, OpUpload, "upload rejected", fmt.Errorf("%w: file is empty", common.ErrValidation))
	case s.maxUploadSize > 0 && int64(len(p.Content)) > s.maxUploadSize:
		return nil, s.fail(ctx, OpUpload, "upload rejected",
			fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, s.maxUploadSize))
	}

	objectID := s.newID()
	uploads := s.repomanager.Uploads(s.db)

	if err := uploads.Create(ctx, &models.PendingUpload{BucketFileID: objectID, OwnerID: ownerID}); err != nil {
		return nil, s.fail(ctx, OpUpload, "failed to record pending upload",
			&common.UploadError{Stage: common.UploadStageIntent, ObjectID: objectID, Err: err})
	}

	obj, err := s.store.CreateFile(ctx, objectID, name, p.Content)
	if err != nil {
		s.dropPending(ctx, objectID)
		return nil, s.fail(ctx, OpUpload, "failed to store file",
			&common.UploadError{Stage: common.UploadStageStore, ObjectID: objectID, Err: err})
	}

	fileType, extension := mapper.Classify(name)
	file := &models.File{
		Name:         name,
		Type:         fileType,
		Extension:    extension,
		Size:         obj.SizeOriginal,
		URL:          s.urls.Build(obj.ID),
		Owner:        models.Owner{ID: ownerID, FullName: user.FullName, Email: user.Email},
		AccountID:    accountID,
		Users:        []string{},
		BucketFileID: obj.ID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Files(tx).Create(ctx, file); err != nil {
			return err
		}
		return s.repomanager.Uploads(tx).Delete(ctx, obj.ID)
	})
	if err != nil {
		if compErr := s.store.DeleteFile(ctx, obj.ID); compErr != nil {
			metrics.RecordCompensation(false)
			metrics.RecordOrphanedObject()
			s.logger.Error(ctx, "compensating delete failed", "op", OpUpload, "object_id", obj.ID, "error", compErr)
			return nil, s.fail(ctx, OpUpload, "failed to create file document",
				&common.UploadError{Stage: common.UploadStageDocument, ObjectID: obj.ID, Orphaned: true, Err: err})
		}
		metrics.RecordCompensation(true)
		s.dropPending(ctx, obj.ID)
		return nil, s.fail(ctx, OpUpload, "failed to create file document",
			&common.UploadError{Stage: common.UploadStageDocument, ObjectID: obj.ID, Err: err})
	}

	metrics.RecordUploadedBytes(file.Size)
	metrics.RecordFileOperation(OpUpload, nil)
	s.revalidate(ctx, p.Path)
	return file, nil
}

// GetFiles lists the files the current user owns or that are shared with
// the user's email, most recently updated first.
func (s *FileService) GetFiles(ctx context.Context) ([]*models.File, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, s.fail(ctx, OpGetFiles, "listing files requires a signed-in user", err)
	}

	files, err := s.repomanager.Files(s.db).List(ctx, user.ID, user.Email)
	if err != nil {
		return nil, s.fail(ctx, OpGetFiles, "failed to list files", err)
	}

	metrics.RecordFileOperation(OpGetFiles, nil)
	return files, nil
}

// RenameFile sets the name to Name + "." + Extension. Type and extension
// stored on the record are left unchanged.
func (s *FileService) RenameFile(ctx context.Context, p RenameParams) (*models.File, error) {
	if _, err := s.session.CurrentUser(ctx); err != nil {
		return nil, s.fail(ctx, OpRename, "rename requires a signed-in user", err)
	}

	base := strings.TrimSpace(p.Name)
	if base == "" {
		return nil, s.fail(ctx, OpRename, "rename rejected", fmt.Errorf("%w: name is empty", common.ErrValidation))
	}

	name := base
	if p.Extension != "" {
		name = base + "." + p.Extension
	}

	repo := s.repomanager.Files(s.db)
	if err := repo.UpdateName(ctx, p.FileID, name); err != nil {
		return nil, s.fail(ctx, OpRename, "failed to rename file", err)
	}

	file, err := repo.Get(ctx, p.FileID)
	if err != nil {
		return nil, s.fail(ctx, OpRename, "failed to load renamed file", err)
	}

	metrics.RecordFileOperation(OpRename, nil)
	s.revalidate(ctx, p.Path)
	return file, nil
}

// UpdateFileUsers replaces the viewer list. Emails are trimmed and
// lower-cased like registered ones. Blank entries and duplicates are
// dropped, order is kept; the owner's own email is never stored.
func (s *FileService) UpdateFileUsers(ctx context.Context, p UpdateUsersParams) (*models.File, error) {
	if _, err := s.session.CurrentUser(ctx); err != nil {
		return nil, s.fail(ctx, OpUpdateUsers, "sharing requires a signed-in user", err)
	}

	emails := dedupe(p.Emails)

	repo := s.repomanager.Files(s.db)
	if err := repo.UpdateUsers(ctx, p.FileID, emails); err != nil {
		return nil, s.fail(ctx, OpUpdateUsers, "failed to update file users", err)
	}

	file, err := repo.Get(ctx, p.FileID)
	if err != nil {
		return nil, s.fail(ctx, OpUpdateUsers, "failed to load shared file", err)
	}

	metrics.RecordFileOperation(OpUpdateUsers, nil)
	s.revalidate(ctx, p.Path)
	return file, nil
}

// DeleteFile removes the document and, only after that succeeded, the
// object it references. An object that cannot be removed is queued for
// the sweeper and reported as a BackendError.
func (s *FileService) DeleteFile(ctx context.Context, p DeleteParams) error {
	if _, err := s.session.CurrentUser(ctx); err != nil {
		return s.fail(ctx, OpDelete, "delete requires a signed-in user", err)
	}

	deleted, err := s.repomanager.Files(s.db).Delete(ctx, p.FileID)
	if err != nil {
		return s.fail(ctx, OpDelete, "failed to delete file document", err)
	}

	if p.BucketFileID != "" && p.BucketFileID != deleted.BucketFileID {
		s.logger.Warn(ctx, "bucket file id does not match the document",
			"file_id", p.FileID, "given", p.BucketFileID, "stored", deleted.BucketFileID)
	}

	s.revalidate(ctx, p.Path)

	if err := s.store.DeleteFile(ctx, deleted.BucketFileID); err != nil {
		metrics.RecordOrphanedObject()
		pending := &models.PendingUpload{BucketFileID: deleted.BucketFileID, OwnerID: deleted.Owner.ID}
		if qErr := s.repomanager.Uploads(s.db).Create(ctx, pending); qErr != nil {
			s.logger.Error(ctx, "failed to queue orphaned object", "op", OpDelete,
				"object_id", deleted.BucketFileID, "error", qErr)
		}
		return s.fail(ctx, OpDelete, "failed to delete file object", err)
	}

	metrics.RecordFileOperation(OpDelete, nil)
	return nil
}

// fail logs err once with the caller message and returns it. Errors callers
// branch on are returned as is; anything else becomes a BackendError.
func (s *FileService) fail(ctx context.Context, op, msg string, err error) error {
	err = asBackendError(op, err)
	s.logger.Error(ctx, msg, "op", op, "error", err)
	metrics.RecordFileOperation(op, err)
	return err
}

func asBackendError(op string, err error) error {
	if errors.Is(err, common.ErrUnauthenticated) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrValidation) {
		return err
	}

	var ue *common.UploadError
	if errors.As(err, &ue) {
		return err
	}
	var be *common.BackendError
	if errors.As(err, &be) {
		return err
	}

	return &common.BackendError{Op: op, Err: err}
}

func (s *FileService) dropPending(ctx context.Context, objectID string) {
	if err := s.repomanager.Uploads(s.db).Delete(ctx, objectID); err != nil {
		s.logger.Warn(ctx, "failed to drop pending upload", "object_id", objectID, "error", err)
	}
}

func (s *FileService) revalidate(ctx context.Context, path string) {
	if s.revalidator == nil {
		return
	}
	s.revalidator.Revalidate(ctx, path)
}

func dedupe(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
