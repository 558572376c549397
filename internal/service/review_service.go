package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"resumeparse/internal/config"
	"resumeparse/internal/domain"
	"resumeparse/internal/export"
	"resumeparse/internal/port"
	"resumeparse/internal/resume"
	"resumeparse/internal/review"
	"resumeparse/internal/schema"
)

const sinkTimeout = 5 * time.Second

// UploadInput is the DTO for résumé upload requests.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReviewView is a review as returned to API callers.
type ReviewView struct {
	*domain.ParseReviewData
	State      review.State      `json:"state"`
	Assessment review.Assessment `json:"assessment"`
}

// FinalizeResult is the outcome of finalizing a review.
type FinalizeResult struct {
	Review      *ReviewView         `json:"review"`
	Resume      domain.ResumeRecord `json:"resume"`
	Corrections []domain.Correction `json:"corrections"`
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Export formats.
const (
	ExportXLSX = "xlsx"
	ExportCSV  = "csv"
)

// ReviewService defines the résumé review contract.
type ReviewService interface {
	Upload(ctx context.Context, input UploadInput) (*ReviewView, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewView, error)
	List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error)
	Correct(ctx context.Context, id, sectionID, fieldID uuid.UUID, value string) (*domain.ParsedField, error)
	CopyFromSource(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error)
	MarkUnknown(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error)
	SplitField(ctx context.Context, id, sectionID, fieldID uuid.UUID, offset int) (*domain.ParsedField, error)
	ToggleSectionVisibility(ctx context.Context, id, sectionID uuid.UUID) (bool, error)
	ListSnapshots(ctx context.Context, id uuid.UUID) ([]domain.ParseSnapshot, error)
	CreateSnapshot(ctx context.Context, id uuid.UUID, description string) (*domain.ParseSnapshot, error)
	Revert(ctx context.Context, id, snapshotID uuid.UUID) (*ReviewView, error)
	Finalize(ctx context.Context, id uuid.UUID) (*FinalizeResult, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	GetResume(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error)
	Export(ctx context.Context, id uuid.UUID, format string) (*ExportFile, error)
	SourceURL(ctx context.Context, id uuid.UUID) (string, error)
	EvictIdle(idle time.Duration) int
}

type reviewService struct {
	parser    port.DocumentParser
	reviews   port.ReviewRepository
	snapshots port.SnapshotRepository
	storage   port.ObjectStorage
	s3Cfg     *config.S3Config
	maxBytes  int64
	sessCfg   review.Config
	policy    review.Policy

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

// liveSession is an open session plus the time it was last used.
type liveSession struct {
	sess     *review.Session
	lastUsed time.Time
}

// NewReviewService creates a new ReviewService implementation. storage may
// be nil, in which case originals are not archived.
func NewReviewService(
	parser port.DocumentParser,
	reviews port.ReviewRepository,
	snapshots port.SnapshotRepository,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	extractCfg *config.ExtractConfig,
	reviewCfg *config.ReviewConfig,
) ReviewService {
	return &reviewService{
		parser:    parser,
		reviews:   reviews,
		snapshots: snapshots,
		storage:   storage,
		s3Cfg:     s3Cfg,
		maxBytes:  extractCfg.MaxFileSizeBytes(),
		sessCfg: review.Config{
			AutosaveDebounce: reviewCfg.AutosaveDebounce,
			MaxSnapshots:     reviewCfg.MaxSnapshots,
		},
		policy: review.Policy{
			ReviewThreshold:      reviewCfg.ReviewThreshold,
			QuickAcceptThreshold: reviewCfg.QuickAcceptThreshold,
		},
		sessions: make(map[uuid.UUID]*liveSession),
	}
}

func (s *reviewService) Upload(ctx context.Context, input UploadInput) (*ReviewView, error) {
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	body := input.Body
	if s.maxBytes > 0 {
		body = io.LimitReader(input.Body, s.maxBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	log.Printf("reviewService.Upload: parsing %s (%s, %d bytes)", input.FileName, input.ContentType, len(raw))
	data, err := s.parser.Parse(domain.RawDocument{Bytes: raw, MediaType: input.ContentType, FileName: input.FileName})
	if err != nil {
		log.Printf("reviewService.Upload: parse failed for %s: %v", input.FileName, err)
		return nil, err
	}

	storageKey, err := s.archive(ctx, data.ID, input, raw)
	if err != nil {
		return nil, err
	}

	sections, err := json.Marshal(data.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshaling sections: %w", err)
	}
	rec := &domain.ReviewRecord{
		ID:                data.ID,
		OriginalFileName:  data.OriginalFileName,
		OriginalFileType:  data.OriginalFileType,
		StorageKey:        storageKey,
		Status:            domain.ReviewStatusEditing,
		Sections:          sections,
		OverallConfidence: data.OverallConfidence,
		CreatedAt:         data.CreatedAt,
	}
	if err := s.reviews.Create(ctx, rec); err != nil {
		log.Printf("reviewService.Upload: failed to create review record: %v", err)
		s.discardArchive(ctx, storageKey)
		return nil, fmt.Errorf("creating review: %w", err)
	}

	sess := review.NewSession(data, s.sessCfg, s.persistSnapshot)
	if err := sess.Open(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[data.ID] = &liveSession{sess: sess, lastUsed: time.Now()}
	s.mu.Unlock()

	log.Printf("reviewService.Upload: review %s created (%d sections, confidence %.2f)",
		data.ID, len(data.Sections), data.OverallConfidence)
	return s.view(sess.Data(), sess.State()), nil
}

// archive stores the original upload, retrying transient failures. It is a
// no-op when archiving is disabled.
func (s *reviewService) archive(ctx context.Context, id uuid.UUID, input UploadInput, raw []byte) (string, error) {
	if s.storage == nil {
		return "", nil
	}
	key := fmt.Sprintf("reviews/%s/%s", id, filepath.Base(input.FileName))
	attempts := s.s3Cfg.UploadRetries
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			_, err := s.storage.Upload(ctx, port.UploadInput{
				Bucket:      s.s3Cfg.Bucket,
				Key:         key,
				Body:        bytes.NewReader(raw),
				ContentType: input.ContentType,
				Size:        int64(len(raw)),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("reviewService.archive: attempt %d for %s failed: %v", n+1, key, err)
		}),
	)
	if err != nil {
		log.Printf("reviewService.archive: giving up on %s: %v", key, err)
		return "", domain.ErrUploadFailed
	}
	return key, nil
}

func (s *reviewService) discardArchive(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
		log.Printf("reviewService.discardArchive: failed to delete %s: %v", key, err)
	}
}

// persistSnapshot is the session snapshot sink. It runs under the session
// lock, so it uses its own bounded context and only logs failures.
func (s *reviewService) persistSnapshot(reviewID uuid.UUID, snap domain.ParseSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	sections, err := json.Marshal(snap.Sections)
	if err != nil {
		log.Printf("reviewService.persistSnapshot: marshal failed for review %s: %v", reviewID, err)
		return
	}
	if err := s.snapshots.Save(ctx, &domain.SnapshotRecord{
		ID:          snap.ID,
		ReviewID:    reviewID,
		Description: snap.Description,
		IsAutoSave:  snap.IsAutoSave,
		Sections:    sections,
		CreatedAt:   snap.Timestamp,
	}); err != nil {
		log.Printf("reviewService.persistSnapshot: save failed for review %s: %v", reviewID, err)
		return
	}
	if err := s.snapshots.Prune(ctx, reviewID, s.maxSnapshots()); err != nil {
		log.Printf("reviewService.persistSnapshot: prune failed for review %s: %v", reviewID, err)
	}
	if snap.IsAutoSave {
		if err := s.reviews.UpdateSections(ctx, reviewID, sections, resume.OverallConfidence(snap.Sections)); err != nil {
			log.Printf("reviewService.persistSnapshot: updating sections of review %s: %v", reviewID, err)
		}
	}
}

func (s *reviewService) maxSnapshots() int {
	if s.sessCfg.MaxSnapshots > 0 {
		return s.sessCfg.MaxSnapshots
	}
	return review.DefaultMaxSnapshots
}

// session returns the live session of a review, rehydrating it from the
// repositories after a restart.
func (s *reviewService) session(ctx context.Context, id uuid.UUID) (*review.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.sessions[id]; ok {
		live.lastUsed = time.Now()
		return live.sess, nil
	}

	rec, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.ReviewStatusEditing {
		return nil, domain.ErrReviewClosed
	}
	data, err := s.recordData(ctx, rec)
	if err != nil {
		return nil, err
	}
	sess := review.NewSession(data, s.sessCfg, s.persistSnapshot)
	if err := sess.Open(); err != nil {
		return nil, err
	}
	s.sessions[id] = &liveSession{sess: sess, lastUsed: time.Now()}
	log.Printf("reviewService.session: rehydrated review %s with %d snapshots", id, len(data.Snapshots))
	return sess, nil
}

// EvictIdle flushes and unloads sessions unused for at least idle. Evicted
// reviews are rehydrated from the repositories on next access.
func (s *reviewService) EvictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, live := range s.sessions {
		if time.Since(live.lastUsed) < idle {
			continue
		}
		if live.sess.Flush() {
			log.Printf("reviewService.EvictIdle: flushed pending auto-save of review %s", id)
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

func (s *reviewService) drop(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// recordData rebuilds review data from its persisted record and snapshots.
func (s *reviewService) recordData(ctx context.Context, rec *domain.ReviewRecord) (*domain.ParseReviewData, error) {
	data := &domain.ParseReviewData{
		ID:                rec.ID,
		OriginalFileName:  rec.OriginalFileName,
		OriginalFileType:  rec.OriginalFileType,
		OverallConfidence: rec.OverallConfidence,
		Sections:          []domain.ParsedSection{},
		Snapshots:         []domain.ParseSnapshot{},
		CreatedAt:         rec.CreatedAt,
	}
	if len(rec.Sections) > 0 {
		if err := json.Unmarshal(rec.Sections, &data.Sections); err != nil {
			return nil, fmt.Errorf("decoding sections of review %s: %w", rec.ID, err)
		}
	}
	snaps, err := s.snapshots.ListByReview(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, sr := range snaps {
		snap := domain.ParseSnapshot{
			ID:          sr.ID,
			Timestamp:   sr.CreatedAt,
			Description: sr.Description,
			IsAutoSave:  sr.IsAutoSave,
		}
		if err := json.Unmarshal(sr.Sections, &snap.Sections); err != nil {
			log.Printf("reviewService.recordData: skipping unreadable snapshot %s: %v", sr.ID, err)
			continue
		}
		data.Snapshots = append(data.Snapshots, snap)
	}
	return data, nil
}

func (s *reviewService) view(data *domain.ParseReviewData, state review.State) *ReviewView {
	return &ReviewView{ParseReviewData: data, State: state, Assessment: s.policy.Assess(data)}
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*ReviewView, error) {
	sess, err := s.session(ctx, id)
	if err == nil {
		return s.view(sess.Data(), sess.State()), nil
	}
	if !errors.Is(err, domain.ErrReviewClosed) {
		return nil, err
	}

	rec, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.recordData(ctx, rec)
	if err != nil {
		return nil, err
	}
	state := review.StateCompleted
	if rec.Status == domain.ReviewStatusCancelled {
		state = review.StateCancelled
	}
	return s.view(data, state), nil
}

func (s *reviewService) List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error) {
	return s.reviews.List(ctx, offset, limit)
}

func (s *reviewService) Correct(ctx context.Context, id, sectionID, fieldID uuid.UUID, value string) (*domain.ParsedField, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := sess.Correct(sectionID, fieldID, value)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *reviewService) CopyFromSource(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := sess.CopyFromSource(sectionID, fieldID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *reviewService) MarkUnknown(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := sess.MarkUnknown(sectionID, fieldID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SplitField returns the newly created field, or nil when the split was a no-op.
func (s *reviewService) SplitField(ctx context.Context, id, sectionID, fieldID uuid.UUID, offset int) (*domain.ParsedField, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.SplitField(sectionID, fieldID, offset)
}

func (s *reviewService) ToggleSectionVisibility(ctx context.Context, id, sectionID uuid.UUID) (bool, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return false, err
	}
	return sess.ToggleSectionVisibility(sectionID)
}

func (s *reviewService) ListSnapshots(ctx context.Context, id uuid.UUID) ([]domain.ParseSnapshot, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return view.Snapshots, nil
}

func (s *reviewService) CreateSnapshot(ctx context.Context, id uuid.UUID, description string) (*domain.ParseSnapshot, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := sess.Snapshot(description)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *reviewService) Revert(ctx context.Context, id, snapshotID uuid.UUID) (*ReviewView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := sess.Revert(snapshotID)
	if err != nil {
		return nil, err
	}
	sections, err := json.Marshal(data.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshaling sections: %w", err)
	}
	if err := s.reviews.UpdateSections(ctx, id, sections, data.OverallConfidence); err != nil {
		return nil, fmt.Errorf("persisting reverted sections: %w", err)
	}
	log.Printf("reviewService.Revert: review %s reverted to snapshot %s", id, snapshotID)
	return s.view(data, sess.State()), nil
}

func (s *reviewService) Finalize(ctx context.Context, id uuid.UUID) (*FinalizeResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	// The review stays open until the completed record is stored, so a
	// failed write keeps unsaved edits and the pending auto-save.
	pre, err := sess.Preview()
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateResume(&pre.Resume); err != nil {
		log.Printf("reviewService.Finalize: review %s failed schema validation: %v", id, err)
		return nil, err
	}

	sections, err := json.Marshal(pre.Data.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshaling sections: %w", err)
	}
	resumeJSON, err := json.Marshal(pre.Resume)
	if err != nil {
		return nil, fmt.Errorf("marshaling resume: %w", err)
	}
	corrections, err := json.Marshal(pre.Corrections)
	if err != nil {
		return nil, fmt.Errorf("marshaling corrections: %w", err)
	}
	if err := s.reviews.Complete(ctx, id, port.CompleteReviewInput{
		Sections:          sections,
		Resume:            resumeJSON,
		Corrections:       corrections,
		OverallConfidence: pre.Data.OverallConfidence,
		FinalizedAt:       time.Now().UTC(),
	}); err != nil {
		log.Printf("reviewService.Finalize: failed to persist review %s: %v", id, err)
		return nil, fmt.Errorf("completing review: %w", err)
	}

	res, err := sess.Finalize()
	if err != nil {
		return nil, err
	}
	s.drop(id)

	log.Printf("reviewService.Finalize: review %s completed with %d corrections", id, len(res.Corrections))
	return &FinalizeResult{
		Review:      s.view(res.Data, review.StateCompleted),
		Resume:      res.Resume,
		Corrections: res.Corrections,
	}, nil
}

func (s *reviewService) Cancel(ctx context.Context, id uuid.UUID) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return err
	}
	if err := sess.Cancel(); err != nil {
		return err
	}
	s.drop(id)

	if err := s.reviews.UpdateStatus(ctx, id, domain.ReviewStatusCancelled); err != nil {
		return fmt.Errorf("cancelling review: %w", err)
	}
	if err := s.snapshots.DeleteByReview(ctx, id); err != nil {
		log.Printf("reviewService.Cancel: failed to delete snapshots of review %s: %v", id, err)
	}
	if rec, err := s.reviews.GetByID(ctx, id); err == nil {
		s.discardArchive(ctx, rec.StorageKey)
	}
	log.Printf("reviewService.Cancel: review %s cancelled", id)
	return nil
}

func (s *reviewService) GetResume(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error) {
	rec, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.ReviewStatusCompleted || len(rec.Resume) == 0 {
		return nil, domain.ErrReviewNotFinalized
	}
	var out domain.ResumeRecord
	if err := json.Unmarshal(rec.Resume, &out); err != nil {
		return nil, fmt.Errorf("decoding resume of review %s: %w", id, err)
	}
	return &out, nil
}

func (s *reviewService) Export(ctx context.Context, id uuid.UUID, format string) (*ExportFile, error) {
	if format != ExportXLSX && format != ExportCSV {
		return nil, domain.ErrInvalidExportType
	}
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case ExportCSV:
		if err := export.WriteCSV(&buf, view.ParseReviewData); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
		return &ExportFile{
			FileName:    export.BuildFilename(view.OriginalFileName, ExportCSV),
			ContentType: "text/csv; charset=utf-8",
			Body:        buf.Bytes(),
		}, nil
	default:
		var rec *domain.ResumeRecord
		if view.State == review.StateCompleted {
			rec, err = s.GetResume(ctx, id)
			if err != nil {
				return nil, err
			}
		} else {
			projected := review.Project(view.Sections)
			rec = &projected
		}
		out, err := export.XLSX(view.ParseReviewData, rec)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			FileName:    export.BuildFilename(view.OriginalFileName, ExportXLSX),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        out.Bytes(),
		}, nil
	}
}

func (s *reviewService) SourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || rec.StorageKey == "" {
		return "", domain.ErrSourceNotArchived
	}
	return s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, rec.StorageKey, s.s3Cfg.PresignExpiry)
}
