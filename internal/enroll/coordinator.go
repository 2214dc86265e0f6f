// Package enroll implements the enrollment coordinator (C4): it turns raw
// reference images into index.Index slots, keeping the similarity index and
// the persistence layer in lockstep.
package enroll

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/embedding"
	"github.com/facewatch/attendance/internal/index"
)

// SkipReason enumerates why one image did not become a reference embedding.
type SkipReason string

const (
	ReasonDecode     SkipReason = "decode"
	ReasonNoFace     SkipReason = "no-face"
	ReasonMultiFace  SkipReason = "multi-face"
	ReasonLowQuality SkipReason = "low-quality"
	ReasonTimeout    SkipReason = "timeout"
)

var (
	// ErrPersonNotFound is returned when the target person does not exist.
	ErrPersonNotFound = errors.New("enroll: person does not exist")
	// ErrTooManyImages is returned when the request exceeds MaxImagesPerPerson.
	ErrTooManyImages = errors.New("enroll: image count exceeds configured cap")
)

// Config holds the enrollment tunables from spec.md §6.
type Config struct {
	QMin                   float64
	AMin                   float64
	MaxImagesPerPerson     int
	ImageProcessingTimeout time.Duration
	ImageRoot              string
}

// Result summarizes one enroll() call.
type Result struct {
	Successful      int
	SkipCounts      map[SkipReason]int
	NewReferenceIDs []int64
}

// PresenceRemover is the slice of the presence tracker that person
// deletion needs: dropping someone from every room they are currently
// seen in. Defined here so this package does not depend on all of
// internal/presence, and so tests can substitute a fake.
type PresenceRemover interface {
	RemovePerson(personID int64) int
}

// Coordinator is C4. It owns no state of its own beyond the per-person
// enrollment locks — the index and the DB are the systems of record.
type Coordinator struct {
	db       *sql.DB
	persons  data.PersonRepository
	provider embedding.Provider
	idx      *index.Index
	presence PresenceRemover
	cfg      Config

	// locks serializes concurrent enrollments for the same person while
	// letting different persons enroll in parallel, the same dedup-map
	// idiom the teacher uses for RTSP profile validation
	// (internal/media/validator.go's pending map).
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewCoordinator(db *sql.DB, persons data.PersonRepository, provider embedding.Provider, idx *index.Index, presence PresenceRemover, cfg Config) *Coordinator {
	return &Coordinator{
		db:       db,
		persons:  persons,
		provider: provider,
		idx:      idx,
		presence: presence,
		cfg:      cfg,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (c *Coordinator) lockFor(personID int64) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	l, ok := c.locks[personID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[personID] = l
	}
	return l
}

// Enroll runs each raw image blob through decode -> detect -> quality gate
// -> transactional persist+index, in order, per spec.md §4.2. It fails as a
// whole only if the person does not exist or the image count exceeds the
// configured cap; individual image failures are reported in Result instead.
func (c *Coordinator) Enroll(ctx context.Context, personID int64, rawImages [][]byte) (*Result, error) {
	if c.cfg.MaxImagesPerPerson > 0 && len(rawImages) > c.cfg.MaxImagesPerPerson {
		return nil, ErrTooManyImages
	}

	if _, err := c.persons.GetByID(ctx, personID); err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	lock := c.lockFor(personID)
	lock.Lock()
	defer lock.Unlock()

	res := &Result{SkipCounts: make(map[SkipReason]int)}

	for _, raw := range rawImages {
		refID, reason, err := c.processOne(ctx, personID, raw)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			res.SkipCounts[reason]++
			continue
		}
		res.Successful++
		res.NewReferenceIDs = append(res.NewReferenceIDs, refID)
	}

	return res, nil
}

func (c *Coordinator) processOne(ctx context.Context, personID int64, raw []byte) (int64, SkipReason, error) {
	imgCtx, cancel := context.WithTimeout(ctx, c.cfg.ImageProcessingTimeout)
	defer cancel()

	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		return 0, ReasonDecode, nil
	}

	faces, err := c.detect(imgCtx, raw)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, ReasonTimeout, nil
		}
		return 0, "", err
	}

	switch len(faces) {
	case 0:
		return 0, ReasonNoFace, nil
	case 1:
		// fallthrough
	default:
		return 0, ReasonMultiFace, nil
	}

	face := faces[0]
	if face.Quality < c.cfg.QMin || face.BBox.Area() < c.cfg.AMin {
		return 0, ReasonLowQuality, nil
	}

	imagePath, err := c.storeImage(personID, raw)
	if err != nil {
		return 0, "", err
	}

	refID, err := c.persistAndIndex(ctx, personID, imagePath, face.Embedding)
	if err != nil {
		return 0, "", err
	}
	return refID, "", nil
}

func (c *Coordinator) detect(ctx context.Context, raw []byte) ([]embedding.Face, error) {
	type result struct {
		faces []embedding.Face
		err   error
	}
	done := make(chan result, 1)
	go func() {
		faces, err := c.provider.Detect(ctx, raw)
		done <- result{faces, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.faces, r.err
	}
}

// persistAndIndex inserts the reference row and adds the slot to the index
// as one logical unit of work: if the DB insert fails the index is
// untouched, and if the index add fails the just-inserted row is deleted
// before returning, per spec.md §4.2 step 4.
func (c *Coordinator) persistAndIndex(ctx context.Context, personID int64, imagePath string, vec []float32) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("enroll: begin tx: %w", err)
	}
	defer tx.Rollback()

	refRepo := data.NewPostgresReferenceEmbeddingRepo(tx)
	row := &data.ReferenceEmbedding{PersonID: personID, ImagePath: imagePath, Embedding: vec}
	if err := refRepo.Create(ctx, row); err != nil {
		return 0, fmt.Errorf("enroll: insert reference row: %w", err)
	}

	slotID, err := c.idx.Add(personID, vec)
	if err != nil {
		// Index add failed: undo the DB half by never committing.
		return 0, fmt.Errorf("enroll: index add: %w", err)
	}

	if err := tx.Commit(); err != nil {
		// The commit failed after the in-memory index already has the
		// slot; remove just that slot so the two stay consistent
		// (testable property 2) without touching the person's other slots.
		c.idx.RemoveSlot(slotID)
		return 0, fmt.Errorf("enroll: commit: %w", err)
	}

	return row.ID, nil
}

func (c *Coordinator) storeImage(personID int64, raw []byte) (string, error) {
	dir := filepath.Join(c.cfg.ImageRoot, fmt.Sprint(personID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("enroll: create image dir: %w", err)
	}
	name := uuid.New().String() + ".jpg"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("enroll: write image: %w", err)
	}
	return path, nil
}

// DeletePerson removes a person and everything owned by them: reference
// rows and attendance history (via DB cascade), their index slots, and
// their presence entries in every room, so a deleted person disappears
// from occupancy immediately instead of aging out over the TTL.
func (c *Coordinator) DeletePerson(ctx context.Context, personID int64) error {
	if err := c.persons.Delete(ctx, personID); err != nil {
		return err
	}
	c.idx.RemoveByPerson(personID)
	if c.presence != nil {
		c.presence.RemovePerson(personID)
	}
	return nil
}
