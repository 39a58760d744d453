package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vidhost/console/internal/models"
	"vidhost/console/internal/service"
)

// staleAfter is how long a fetched page stays fresh before ShouldRefetch
// reports true.
const staleAfter = 5 * time.Minute

// ErrNothingSelected rejects a bulk delete with an empty selection.
var ErrNothingSelected = errors.New("no videos selected")

// VideoStore caches the current page of the video collection together with
// its pagination bookkeeping, the multi-select set and transfer progress.
//
// Mutations follow two regimes. Deletes are optimistic: the local state
// changes first and a failure invalidates the cache so the truth is
// re-pulled. Uploads and edits are confirm-then-merge: the server computes
// the resulting media URLs, so nothing is guessed locally and only the
// returned record is merged in.
type VideoStore struct {
	mu          sync.RWMutex
	videos      []models.Video
	total       int
	page        int
	pageSize    int
	totalPages  int
	selected    map[string]struct{}
	progress    int
	lastFetched time.Time

	svc *service.VideoService
	log zerolog.Logger
}

func NewVideoStore(svc *service.VideoService, pageSize int, logger zerolog.Logger) *VideoStore {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &VideoStore{
		page:     1,
		pageSize: pageSize,
		selected: make(map[string]struct{}),
		svc:      svc,
		log:      logger,
	}
}

// Load fetches the current page and replaces the list wholesale. Records
// missing an id, title or thumbnail are filtered out before they reach the
// caller, and the selection is pruned to the ids still visible.
func (s *VideoStore) Load(ctx context.Context) error {
	s.mu.RLock()
	page, limit := s.page, s.pageSize
	s.mu.RUnlock()

	result, err := s.svc.List(ctx, page, limit)
	if err != nil {
		return err
	}

	videos := result.Videos[:0:0]
	for _, v := range result.Videos {
		if v.Renderable() {
			videos = append(videos, v)
		} else {
			s.log.Warn().Str("video_id", v.ID).Msg("dropping incomplete video record")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = videos
	s.setStatsLocked(result.Total)
	s.pruneSelectionLocked()
	s.lastFetched = time.Now()
	return nil
}

// Upload creates a video and, on success, splices the returned record into
// the page and bumps the total. Progress is tracked for the duration of the
// transfer and reset afterwards regardless of outcome.
func (s *VideoStore) Upload(ctx context.Context, input service.UploadVideoInput) (models.Video, error) {
	input.OnProgress = s.progressHook(input.OnProgress)
	defer s.resetProgress()

	video, err := s.svc.Upload(ctx, input)
	if err != nil {
		return models.Video{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if video.Renderable() {
		s.videos = append([]models.Video{video}, s.videos...)
	}
	s.setStatsLocked(s.total + 1)
	return video, nil
}

// Edit updates the record with the given id through the narrowest service
// operation. On success the server's record replaces the local one; on a
// failed network mutation the cache is invalidated instead of guessing a
// rollback value. A local rejection (no changes, validation) leaves the
// cache fresh.
func (s *VideoStore) Edit(ctx context.Context, id string, edit service.VideoEdit) (models.Video, error) {
	s.mu.RLock()
	original, ok := s.findLocked(id)
	s.mu.RUnlock()
	if !ok {
		return models.Video{}, service.ErrNotFound
	}

	edit.OnProgress = s.progressHook(edit.OnProgress)
	defer s.resetProgress()

	updated, err := s.svc.Edit(ctx, original, edit)
	if err != nil {
		if !isLocalRejection(err) {
			s.Invalidate()
		}
		return models.Video{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos[i] = updated
			break
		}
	}
	return updated, nil
}

// Delete removes the id optimistically, then issues the call. On failure
// the whole collection is invalidated and re-pulled so the true state
// replaces the speculation.
func (s *VideoStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()

	if err := s.svc.Delete(ctx, id); err != nil {
		s.Invalidate()
		if lerr := s.Load(ctx); lerr != nil {
			s.log.Warn().Err(lerr).Msg("reconcile after failed delete")
		}
		return err
	}
	return nil
}

// BulkDelete issues one batch call for the current selection. On success
// every selected id leaves the list and the selection clears; on failure
// nothing is touched, so a partial application is impossible.
func (s *VideoStore) BulkDelete(ctx context.Context) (service.BulkDeleteResult, error) {
	ids := s.Selected()
	if len(ids) == 0 {
		return service.BulkDeleteResult{}, ErrNothingSelected
	}

	result, err := s.svc.BulkDelete(ctx, ids)
	if err != nil {
		return service.BulkDeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.removeLocked(id)
	}
	s.selected = make(map[string]struct{})
	return result, nil
}

// Select adds an id to the selection. Ids not on the current page are
// ignored so the selection stays a subset of the visible list.
func (s *VideoStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); ok {
		s.selected[id] = struct{}{}
	}
}

func (s *VideoStore) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// SelectAll sets the selection to exactly the ids visible on the page.
func (s *VideoStore) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(s.videos))
	for _, v := range s.videos {
		s.selected[v.ID] = struct{}{}
	}
}

func (s *VideoStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

func (s *VideoStore) IsAllSelected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos) > 0 && len(s.selected) == len(s.videos)
}

// SetPage switches the page and re-fetches it.
func (s *VideoStore) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	return s.Load(ctx)
}

// SetPageSize recomputes the page count from the already-known total. No
// fetch happens until the next Load.
func (s *VideoStore) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = size
	s.setStatsLocked(s.total)
}

// ShouldRefetch reports whether the cached page is missing or stale.
func (s *VideoStore) ShouldRefetch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetched.IsZero() || time.Since(s.lastFetched) > staleAfter
}

// Invalidate marks the cached page stale so the next consumer re-fetches.
func (s *VideoStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetched = time.Time{}
}

func (s *VideoStore) Videos() []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

func (s *VideoStore) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *VideoStore) Total() int      { s.mu.RLock(); defer s.mu.RUnlock(); return s.total }
func (s *VideoStore) Page() int       { s.mu.RLock(); defer s.mu.RUnlock(); return s.page }
func (s *VideoStore) PageSize() int   { s.mu.RLock(); defer s.mu.RUnlock(); return s.pageSize }
func (s *VideoStore) TotalPages() int { s.mu.RLock(); defer s.mu.RUnlock(); return s.totalPages }
func (s *VideoStore) Progress() int   { s.mu.RLock(); defer s.mu.RUnlock(); return s.progress }

func (s *VideoStore) setStatsLocked(total int) {
	if total < 0 {
		total = 0
	}
	s.total = total
	s.totalPages = (total + s.pageSize - 1) / s.pageSize
}

func (s *VideoStore) findLocked(id string) (models.Video, bool) {
	for _, v := range s.videos {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}

func (s *VideoStore) removeLocked(id string) {
	for i, v := range s.videos {
		if v.ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			s.setStatsLocked(s.total - 1)
			delete(s.selected, id)
			return
		}
	}
}

func (s *VideoStore) pruneSelectionLocked() {
	for id := range s.selected {
		if _, ok := s.findLocked(id); !ok {
			delete(s.selected, id)
		}
	}
}

func (s *VideoStore) progressHook(next func(int)) func(int) {
	return func(pct int) {
		s.mu.Lock()
		if pct > s.progress {
			s.progress = pct
		}
		s.mu.Unlock()
		if next != nil {
			next(pct)
		}
	}
}

// resetProgress returns the gauge to zero once no transfer is active.
func (s *VideoStore) resetProgress() {
	s.mu.Lock()
	s.progress = 0
	s.mu.Unlock()
}

func isLocalRejection(err error) bool {
	var ve *service.ValidationError
	return errors.Is(err, service.ErrNoChanges) || errors.As(err, &ve)
}
