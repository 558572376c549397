// Package review holds the stateful workspace in which a human corrects a
// parsed résumé before it is finalized into a résumé record.
package review

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
	"resumeparse/internal/resume"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateIdle       State = "idle"
	StateEditing    State = "editing"
	StateAutosaving State = "autosaving"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

const (
	DefaultAutosaveDebounce = 2 * time.Second
	DefaultMaxSnapshots     = 10

	initialSnapshotDescription  = "Initial parse"
	autosaveSnapshotDescription = "Auto-save"
)

// SnapshotSink receives every snapshot a session records. It is called with
// the session lock held and must not call back into the session.
type SnapshotSink func(reviewID uuid.UUID, snap domain.ParseSnapshot)

// Config holds session settings. Zero values use the defaults.
type Config struct {
	AutosaveDebounce time.Duration
	MaxSnapshots     int
	Now              func() time.Time
}

// sectionState is a section header plus the ordered ids of its fields. Field
// values live in the session's arena.
type sectionState struct {
	header   domain.ParsedSection
	fieldIDs []uuid.UUID
}

// Session is the single-writer review workspace of one document. All methods
// are safe to call from multiple goroutines; callers are still expected to
// serialize edits from different actors.
type Session struct {
	mu   sync.Mutex
	cfg  Config
	sink SnapshotSink

	state     State
	data      domain.ParseReviewData
	sections  []*sectionState
	fields    map[uuid.UUID]*domain.ParsedField
	snapshots []domain.ParseSnapshot

	timer    *time.Timer
	timerGen uint64
	closedAt time.Time
}

// NewSession creates an idle session over parsed data. Snapshots already
// present on data are kept, which lets a persisted review be rehydrated.
func NewSession(data *domain.ParseReviewData, cfg Config, sink SnapshotSink) *Session {
	if cfg.AutosaveDebounce <= 0 {
		cfg.AutosaveDebounce = DefaultAutosaveDebounce
	}
	if cfg.MaxSnapshots <= 0 {
		cfg.MaxSnapshots = DefaultMaxSnapshots
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{
		cfg:   cfg,
		sink:  sink,
		state: StateIdle,
		data: domain.ParseReviewData{
			ID:               data.ID,
			OriginalFileName: data.OriginalFileName,
			OriginalFileType: data.OriginalFileType,
			CreatedAt:        data.CreatedAt,
		},
	}
	s.load(data.Sections)
	for _, snap := range data.Snapshots {
		snap.Sections = domain.CloneSections(snap.Sections)
		s.snapshots = append(s.snapshots, snap)
	}
	return s
}

// ID returns the id of the reviewed document.
func (s *Session) ID() uuid.UUID {
	return s.data.ID
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClosedAt returns when the session was finalized or cancelled.
func (s *Session) ClosedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedAt
}

// Open moves an idle session into editing. The first open of a document with
// no history records an "Initial parse" snapshot.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle:
	case StateEditing, StateAutosaving:
		return nil
	default:
		return domain.ErrReviewClosed
	}
	s.state = StateEditing
	if len(s.snapshots) == 0 {
		s.record(initialSnapshotDescription, false)
	}
	return nil
}

// Data returns a deep copy of the current review data with derived
// confidences recomputed.
func (s *Session) Data() *domain.ParseReviewData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotData()
}

// Snapshots returns the retained snapshot history, oldest first.
func (s *Session) Snapshots() []domain.ParseSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshots(s.snapshots)
}

// Correct sets a field's corrected value. The field becomes corrected when
// the value differs from the original and validated otherwise.
func (s *Session) Correct(sectionID, fieldID uuid.UUID, value string) (domain.ParsedField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.editableField(sectionID, fieldID)
	if err != nil {
		return domain.ParsedField{}, err
	}
	f.CorrectedValue = value
	if value != f.OriginalValue {
		f.Status = domain.FieldStatusCorrected
	} else {
		f.Status = domain.FieldStatusValidated
	}
	s.touch()
	return f.Clone(), nil
}

// CopyFromSource replaces a field's value with its provenance source text.
// Fields without source text are left untouched.
func (s *Session) CopyFromSource(sectionID, fieldID uuid.UUID) (domain.ParsedField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.editableField(sectionID, fieldID)
	if err != nil {
		return domain.ParsedField{}, err
	}
	if f.Provenance == nil || f.Provenance.SourceText == "" {
		return f.Clone(), nil
	}
	f.CorrectedValue = f.Provenance.SourceText
	f.Status = domain.FieldStatusCorrected
	s.touch()
	return f.Clone(), nil
}

// MarkUnknown clears a field and flags it as explicitly unknown.
func (s *Session) MarkUnknown(sectionID, fieldID uuid.UUID) (domain.ParsedField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.editableField(sectionID, fieldID)
	if err != nil {
		return domain.ParsedField{}, err
	}
	f.CorrectedValue = ""
	f.Status = domain.FieldStatusUnknown
	s.touch()
	return f.Clone(), nil
}

// SplitField cuts a field's corrected value at a character offset. The field
// keeps the trimmed first half and a new field holding the trimmed second
// half is inserted right after it. When either half would be blank nothing
// changes and the returned field is nil.
func (s *Session) SplitField(sectionID, fieldID uuid.UUID, offset int) (*domain.ParsedField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.editableField(sectionID, fieldID)
	if err != nil {
		return nil, err
	}
	runes := []rune(f.CorrectedValue)
	if offset <= 0 || offset >= len(runes) {
		return nil, nil
	}
	head := strings.TrimSpace(string(runes[:offset]))
	tail := strings.TrimSpace(string(runes[offset:]))
	if head == "" || tail == "" {
		return nil, nil
	}

	created := f.Clone()
	created.ID = uuid.New()
	created.OriginalValue = tail
	created.CorrectedValue = tail
	created.Status = domain.FieldStatusCorrected

	f.CorrectedValue = head
	f.Status = domain.FieldStatusCorrected

	sec := s.section(sectionID)
	idx := indexOf(sec.fieldIDs, fieldID)
	sec.fieldIDs = append(sec.fieldIDs, uuid.Nil)
	copy(sec.fieldIDs[idx+2:], sec.fieldIDs[idx+1:])
	sec.fieldIDs[idx+1] = created.ID
	s.fields[created.ID] = &created

	s.touch()
	out := created.Clone()
	return &out, nil
}

// ToggleSectionVisibility flips whether a section is shown. Field data is
// not affected.
func (s *Session) ToggleSectionVisibility(sectionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return false, err
	}
	sec := s.section(sectionID)
	if sec == nil {
		return false, domain.ErrSectionNotFound
	}
	sec.header.IsVisible = !sec.header.IsVisible
	s.touch()
	return sec.header.IsVisible, nil
}

// Snapshot records a manual snapshot of the current sections.
func (s *Session) Snapshot(description string) (domain.ParseSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return domain.ParseSnapshot{}, err
	}
	snap := s.record(description, false)
	snap.Sections = domain.CloneSections(snap.Sections)
	return snap, nil
}

// Revert replaces the live sections with a copy of a snapshot's sections.
// The snapshot history is kept, so reverting can go back and forth.
func (s *Session) Revert(snapshotID uuid.UUID) (*domain.ParseReviewData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return nil, err
	}
	for i := range s.snapshots {
		if s.snapshots[i].ID == snapshotID {
			s.stopTimer()
			s.load(s.snapshots[i].Sections)
			return s.snapshotData(), nil
		}
	}
	return nil, domain.ErrSnapshotNotFound
}

// Result is the outcome of finalizing a review.
type Result struct {
	Data        *domain.ParseReviewData
	Resume      domain.ResumeRecord
	Corrections []domain.Correction
}

// Preview builds what Finalize would return without closing the session.
func (s *Session) Preview() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return nil, err
	}
	return s.result(), nil
}

// Finalize completes the review. It cancels any pending auto-save, collects
// corrected and validated fields and projects the sections onto a résumé
// record.
func (s *Session) Finalize() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return nil, err
	}
	s.close(StateCompleted)
	return s.result(), nil
}

func (s *Session) result() *Result {
	data := s.snapshotData()
	var corrections []domain.Correction
	for _, sec := range data.Sections {
		for _, f := range sec.Fields {
			if f.Status == domain.FieldStatusCorrected || f.Status == domain.FieldStatusValidated {
				corrections = append(corrections, domain.Correction{
					SectionID:      sec.ID,
					FieldID:        f.ID,
					FieldName:      f.FieldName,
					OriginalValue:  f.OriginalValue,
					CorrectedValue: f.CorrectedValue,
					Status:         f.Status,
				})
			}
		}
	}
	if corrections == nil {
		corrections = []domain.Correction{}
	}
	return &Result{
		Data:        data,
		Resume:      Project(data.Sections),
		Corrections: corrections,
	}
}

// Cancel abandons the review and drops its in-memory state. Snapshots
// already handed to the sink are left to the caller.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted || s.state == StateCancelled {
		return domain.ErrReviewClosed
	}
	s.close(StateCancelled)
	s.sections = nil
	s.fields = map[uuid.UUID]*domain.ParsedField{}
	s.snapshots = nil
	return nil
}

// Flush records a pending auto-save immediately instead of waiting for the
// debounce to expire. It reports whether a snapshot was recorded.
func (s *Session) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil || s.state != StateEditing {
		return false
	}
	s.stopTimer()
	s.record(autosaveSnapshotDescription, true)
	return true
}

func (s *Session) close(state State) {
	s.stopTimer()
	s.state = state
	s.closedAt = s.cfg.Now()
}

func (s *Session) checkEditable() error {
	switch s.state {
	case StateEditing, StateAutosaving:
		return nil
	case StateIdle:
		return domain.ErrReviewNotOpen
	default:
		return domain.ErrReviewClosed
	}
}

func (s *Session) editableField(sectionID, fieldID uuid.UUID) (*domain.ParsedField, error) {
	if err := s.checkEditable(); err != nil {
		return nil, err
	}
	sec := s.section(sectionID)
	if sec == nil {
		return nil, domain.ErrSectionNotFound
	}
	if indexOf(sec.fieldIDs, fieldID) < 0 {
		return nil, domain.ErrFieldNotFound
	}
	return s.fields[fieldID], nil
}

func (s *Session) section(id uuid.UUID) *sectionState {
	for _, sec := range s.sections {
		if sec.header.ID == id {
			return sec
		}
	}
	return nil
}

// load replaces the arena with a deep copy of sections.
func (s *Session) load(sections []domain.ParsedSection) {
	s.sections = make([]*sectionState, 0, len(sections))
	s.fields = make(map[uuid.UUID]*domain.ParsedField)
	for i := range sections {
		st := &sectionState{header: sections[i]}
		st.header.Fields = nil
		for j := range sections[i].Fields {
			f := sections[i].Fields[j].Clone()
			s.fields[f.ID] = &f
			st.fieldIDs = append(st.fieldIDs, f.ID)
		}
		s.sections = append(s.sections, st)
	}
}

// materialize builds a fresh section list from the arena.
func (s *Session) materialize() ([]domain.ParsedSection, float64) {
	out := make([]domain.ParsedSection, len(s.sections))
	for i, sec := range s.sections {
		out[i] = sec.header
		out[i].Fields = make([]domain.ParsedField, 0, len(sec.fieldIDs))
		for _, id := range sec.fieldIDs {
			out[i].Fields = append(out[i].Fields, s.fields[id].Clone())
		}
	}
	overall := resume.Recompute(out)
	for i, sec := range s.sections {
		sec.header.Confidence = out[i].Confidence
		sec.header.IsEmpty = out[i].IsEmpty
	}
	return out, overall
}

func (s *Session) snapshotData() *domain.ParseReviewData {
	d := s.data
	d.Sections, d.OverallConfidence = s.materialize()
	d.Snapshots = cloneSnapshots(s.snapshots)
	return &d
}

// record appends a snapshot, drops the oldest beyond the cap and hands it to
// the sink.
func (s *Session) record(description string, autosave bool) domain.ParseSnapshot {
	sections, _ := s.materialize()
	snap := domain.ParseSnapshot{
		ID:          uuid.New(),
		Timestamp:   s.cfg.Now().UTC(),
		Sections:    sections,
		Description: description,
		IsAutoSave:  autosave,
	}
	s.snapshots = append(s.snapshots, snap)
	if over := len(s.snapshots) - s.cfg.MaxSnapshots; over > 0 {
		s.snapshots = append([]domain.ParseSnapshot(nil), s.snapshots[over:]...)
	}
	if s.sink != nil {
		s.sink(s.data.ID, snap)
	}
	return snap
}

// touch schedules a debounced auto-save, restarting the quiet period.
func (s *Session) touch() {
	s.stopTimer()
	gen := s.timerGen
	s.timer = time.AfterFunc(s.cfg.AutosaveDebounce, func() { s.autosave(gen) })
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

func (s *Session) autosave(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.timerGen || s.state != StateEditing {
		return
	}
	s.timer = nil
	s.state = StateAutosaving
	snap := s.record(autosaveSnapshotDescription, true)
	s.state = StateEditing
	log.Printf("review.autosave: review %s snapshot %s (%d retained)", s.data.ID, snap.ID, len(s.snapshots))
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}

func cloneSnapshots(in []domain.ParseSnapshot) []domain.ParseSnapshot {
	out := make([]domain.ParseSnapshot, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Sections = domain.CloneSections(in[i].Sections)
	}
	return out
}

