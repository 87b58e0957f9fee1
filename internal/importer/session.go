package importer

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Step is the wizard state of an import session.
type Step int

const (
	StepSelectFile Step = iota + 1
	StepMapColumns
	StepConfirmImport
	StepReviewAndEdit
)

func (s Step) String() string {
	switch s {
	case StepSelectFile:
		return "select_file"
	case StepMapColumns:
		return "map_columns"
	case StepConfirmImport:
		return "confirm_import"
	case StepReviewAndEdit:
		return "review_and_edit"
	default:
		return "unknown"
	}
}

// DuplicatePolicy controls what Import does with a batch record whose ID
// already exists in the collection.
type DuplicatePolicy string

const (
	// DuplicateAppend keeps the legacy behavior: plain concatenation, the
	// collection may end up with several entries sharing an ID.
	DuplicateAppend DuplicatePolicy = "append"
	// DuplicateUpsert replaces the first existing entry with the same ID.
	DuplicateUpsert DuplicatePolicy = "upsert"
	// DuplicateReject skips batch records whose ID is already present.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a configured policy name, defaulting to
// append for the empty string.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateAppend:
		return DuplicateAppend, nil
	case DuplicateUpsert:
		return DuplicateUpsert, nil
	case DuplicateReject:
		return DuplicateReject, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

var (
	// ErrWrongStep is returned when an operation is called out of order.
	ErrWrongStep = errors.New("operation not allowed at this step")
	// ErrValidationPending is returned by Import while validation errors remain.
	ErrValidationPending = errors.New("validation errors must be resolved before import")
	// ErrMissingRequired is returned by Add when ID or name is absent.
	ErrMissingRequired = errors.New("id and name are required")
	// ErrUnknownColumn is returned by SetMapping for a column not in the file.
	ErrUnknownColumn = errors.New("column not present in the uploaded file")
	// ErrUnknownField is returned by SetMapping for a field not in the schema.
	ErrUnknownField = errors.New("unknown canonical field")
	// ErrEntryNotFound is returned by Edit for an ID with no matching entry.
	ErrEntryNotFound = errors.New("entry not found")
)

// ChangeFunc receives the full updated collection after every mutation.
type ChangeFunc func(entities []Record)

// ImportSummary reports what Import did with the transformed batch.
type ImportSummary struct {
	Transformed int `json:"transformed"`
	Added       int `json:"added"`
	Replaced    int `json:"replaced"`
	Skipped     int `json:"skipped"`
	Total       int `json:"total"`
}

// Session is one wizard instance: it owns the decoded table, the column
// mapping, the validation result and the growing entity collection, and
// walks the SelectFile → MapColumns → ConfirmImport → ReviewAndEdit state
// machine. All methods are safe for concurrent use.
type Session struct {
	ID        string
	Entity    string
	CreatedAt time.Time

	mu         sync.Mutex
	schema     *EntitySchema
	policy     DuplicatePolicy
	step       Step
	table      *Table
	mapping    ColumnMapping
	ambiguous  map[string][]string
	errors     []string
	entities   []Record
	onChange   ChangeFunc
	lastAccess time.Time
	logger     *logrus.Entry
}

// NewSession creates a session at the SelectFile step. onChange may be nil.
func NewSession(schema *EntitySchema, policy DuplicatePolicy, onChange ChangeFunc, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	id := uuid.New().String()
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		Entity:     schema.Entity,
		CreatedAt:  now,
		schema:     schema,
		policy:     policy,
		step:       StepSelectFile,
		onChange:   onChange,
		lastAccess: now,
		logger:     logger.WithFields(logrus.Fields{"component": "importer.session", "session": id, "entity": schema.Entity}),
	}
}

// Schema returns the entity schema the session was created for.
func (s *Session) Schema() *EntitySchema { return s.schema }

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Policy returns the duplicate policy in effect.
func (s *Session) Policy() DuplicatePolicy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// Touch refreshes the idle timer used by the manager's sweeper.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccess = time.Now().UTC()
	s.mu.Unlock()
}

// IdleSince reports the last access time.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Seed replaces the collection wholesale with parent-supplied data. It is
// re-entrant: a value-equal collection causes no mutation and no change
// notification. When seeded data exists the session opens directly at the
// review step.
func (s *Session) Seed(existing []Record) {
	s.mu.Lock()
	if reflect.DeepEqual(s.entities, existing) {
		s.mu.Unlock()
		return
	}
	s.entities = cloneRecords(existing)
	if len(s.entities) > 0 && s.step == StepSelectFile {
		s.step = StepReviewAndEdit
	}
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.notify(snapshot)
}

// LoadTable installs a freshly decoded file, infers the column mapping and
// advances to the mapping step. Any previous parse state for the wizard is
// discarded; the accumulated entity collection is kept.
func (s *Session) LoadTable(table *Table) MappingResult {
	inferred := InferMapping(s.schema, table.Headers)

	s.mu.Lock()
	s.table = table
	s.mapping = inferred.Mapping
	s.ambiguous = inferred.Ambiguous
	s.errors = nil
	s.step = StepMapColumns
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"rows":      len(table.Rows),
		"mapped":    len(inferred.Mapping),
		"ambiguous": len(inferred.Ambiguous),
	}).Info("file loaded")
	return inferred
}

// SetMapping overrides the mapping of one column. An empty field ignores the
// column. Overriding drops the column from the ambiguity list and sends the
// session back to the mapping step if it had advanced.
func (s *Session) SetMapping(column, canonical string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step < StepMapColumns || s.table == nil {
		return ErrWrongStep
	}
	known := false
	for _, h := range s.table.Headers {
		if h == column {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if canonical != "" && s.schema.Field(canonical) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, canonical)
	}

	if canonical == "" {
		delete(s.mapping, column)
	} else {
		s.mapping[column] = canonical
	}
	delete(s.ambiguous, column)
	if s.step == StepConfirmImport {
		s.step = StepMapColumns
	}
	s.errors = nil
	return nil
}

// Mapping returns a copy of the current column mapping.
func (s *Session) Mapping() ColumnMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(ColumnMapping, len(s.mapping))
	for k, v := range s.mapping {
		out[k] = v
	}
	return out
}

// Ambiguous returns the unresolved columns from mapping inference.
func (s *Session) Ambiguous() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.ambiguous))
	for k, v := range s.ambiguous {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Table returns the decoded table, nil before a file is loaded.
func (s *Session) Table() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Validate runs the validator over the current mapping and rows. An empty
// result advances the session to the confirm step; otherwise it stays at the
// mapping step and the error list is retained for display.
func (s *Session) Validate() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil || s.step < StepMapColumns {
		return []string{ErrWrongStep.Error()}
	}

	s.errors = Validate(s.schema, s.mapping, s.table)
	if len(s.errors) == 0 {
		s.step = StepConfirmImport
	} else {
		s.step = StepMapColumns
	}
	return append([]string(nil), s.errors...)
}

// ValidationErrors returns the last validation result.
func (s *Session) ValidationErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}

// Import transforms the rows with the confirmed mapping and merges the batch
// into the collection under the session's duplicate policy, then moves to
// the review step and notifies the subscriber. Transformation is synchronous;
// there is no cosmetic progress reporting.
func (s *Session) Import() (ImportSummary, error) {
	s.mu.Lock()
	if s.step != StepConfirmImport {
		if len(s.errors) > 0 {
			s.mu.Unlock()
			return ImportSummary{}, ErrValidationPending
		}
		s.mu.Unlock()
		return ImportSummary{}, ErrWrongStep
	}

	batch := Transform(s.schema, s.mapping, s.table)
	summary := s.mergeLocked(batch)
	summary.Transformed = len(batch)
	s.step = StepReviewAndEdit
	s.table = nil
	summary.Total = len(s.entities)
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"transformed": summary.Transformed,
		"added":       summary.Added,
		"replaced":    summary.Replaced,
		"skipped":     summary.Skipped,
		"total":       summary.Total,
	}).Info("batch imported")
	s.notify(snapshot)
	return summary, nil
}

// MergeAppend merges an already-transformed batch, bypassing the wizard
// steps. Used when the parent supplies records from another source.
func (s *Session) MergeAppend(batch []Record) ImportSummary {
	s.mu.Lock()
	summary := s.mergeLocked(batch)
	summary.Transformed = len(batch)
	summary.Total = len(s.entities)
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.notify(snapshot)
	return summary
}

func (s *Session) mergeLocked(batch []Record) ImportSummary {
	idField := s.schema.IDField().Canonical
	var summary ImportSummary

	switch s.policy {
	case DuplicateUpsert:
		for _, rec := range batch {
			id := String(rec, idField)
			replaced := false
			for i, existing := range s.entities {
				if String(existing, idField) == id {
					s.entities[i] = rec
					replaced = true
					break
				}
			}
			if replaced {
				summary.Replaced++
			} else {
				s.entities = append(s.entities, rec)
				summary.Added++
			}
		}
	case DuplicateReject:
		seen := make(map[string]bool, len(s.entities))
		for _, existing := range s.entities {
			seen[String(existing, idField)] = true
		}
		for _, rec := range batch {
			id := String(rec, idField)
			if seen[id] {
				summary.Skipped++
				continue
			}
			seen[id] = true
			s.entities = append(s.entities, rec)
			summary.Added++
		}
	default: // DuplicateAppend
		s.entities = append(s.entities, batch...)
		summary.Added = len(batch)
	}

	return summary
}

// Add appends one manually entered entity. The entity's ID and name fields
// must both be non-empty; on failure nothing is mutated. A creation
// timestamp is stamped when the schema carries a date_creation field and the
// entry has none.
func (s *Session) Add(rec Record) error {
	s.mu.Lock()

	idField := s.schema.IDField()
	nameField := s.schema.NameField()
	if String(rec, idField.Canonical) == "" || String(rec, nameField.Canonical) == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s, %s", ErrMissingRequired, idField.Label, nameField.Label)
	}

	entry := make(Record, len(rec)+1)
	for k, v := range rec {
		if s.schema.Field(k) != nil {
			entry[k] = v
		}
	}
	if s.schema.Field("date_creation") != nil && String(entry, "date_creation") == "" {
		entry["date_creation"] = time.Now().UTC().Format("2006-01-02")
	}

	s.entities = append(s.entities, entry)
	if s.step == StepSelectFile {
		s.step = StepReviewAndEdit
	}
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Edit replaces a single field on the first entity matching the ID.
func (s *Session) Edit(id, canonical string, value any) error {
	s.mu.Lock()

	if s.schema.Field(canonical) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, canonical)
	}

	idField := s.schema.IDField().Canonical
	var target Record
	for _, rec := range s.entities {
		if String(rec, idField) == id {
			target = rec
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrEntryNotFound, id)
	}

	target[canonical] = value
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Remove filters out every entity whose ID matches and returns how many were
// removed. No notification is sent when nothing matched.
func (s *Session) Remove(id string) int {
	s.mu.Lock()

	idField := s.schema.IDField().Canonical
	kept := s.entities[:0]
	removed := 0
	for _, rec := range s.entities {
		if String(rec, idField) == id {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.entities = kept
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	snapshot := cloneRecords(s.entities)
	s.mu.Unlock()

	s.notify(snapshot)
	return removed
}

// Entities returns a deep copy of the current collection.
func (s *Session) Entities() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.entities)
}

func (s *Session) notify(snapshot []Record) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, rec := range in {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
