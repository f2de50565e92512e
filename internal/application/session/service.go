package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/photodish/v1/internal/application/persist"
	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/infrastructure/auth"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/pkg/datauri"
	apperrors "github.com/photodish/v1/pkg/errors"
	"go.uber.org/zap"
)

const defaultPairingTimeout = 45 * time.Second

// sessionLock is a reference-counted per-session mutex. The entry is
// dropped from the service map when the last holder releases it, so the
// map only ever holds locks for in-flight operations.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// pairingHandle identifies one in-flight pairing fetch so its goroutine
// can remove its own cancel entry without clobbering a successor's.
type pairingHandle struct {
	cancel context.CancelFunc
}

// Service orchestrates upload sessions. State mutations happen under a
// per-session lock; gateway calls happen outside it so independent
// operations on one session can overlap.
type Service struct {
	store     outbound.SessionStore
	gateway   outbound.TransformGateway
	persister *persist.Gateway
	ttl       time.Duration
	logger    *zap.Logger

	mu            sync.Mutex
	locks         map[string]*sessionLock
	pairingCancel map[string]*pairingHandle

	pairingTimeout time.Duration
}

// NewService creates a session service.
func NewService(
	store outbound.SessionStore,
	gateway outbound.TransformGateway,
	persister *persist.Gateway,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:          store,
		gateway:        gateway,
		persister:      persister,
		ttl:            ttl,
		logger:         logger,
		locks:          make(map[string]*sessionLock),
		pairingCancel:  make(map[string]*pairingHandle),
		pairingTimeout: defaultPairingTimeout,
	}
}

// Create starts a new, empty upload session.
func (s *Service) Create(ctx context.Context) (*State, error) {
	now := time.Now().UTC()
	st := &State{
		ID:        uuid.NewString(),
		Phase:     PhaseIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}
	return st.clone(), nil
}

// Get returns the current session snapshot.
func (s *Service) Get(ctx context.Context, id string) (*State, error) {
	lock := s.acquire(id)
	defer s.release(id, lock)

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.clone(), nil
}

// AttachPhoto records a newly selected photo and moves the session to
// Previewing. Any previously generated recipe is discarded immediately so
// a stale recipe is never shown against a new preview.
func (s *Service) AttachPhoto(ctx context.Context, id, photoDataURI string) (*State, error) {
	if _, err := datauri.ParseImage(photoDataURI); err != nil {
		return nil, apperrors.NewValidationError("please upload an image of a dish as a data URI")
	}

	lock := s.acquire(id)
	defer s.release(id, lock)

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if st.Recipe != nil {
		// Discarding the recipe invalidates its in-flight pairing fetch.
		s.cancelPairingFetch(id)
		st.Rev++
	}

	st.PhotoDataURI = photoDataURI
	st.Phase = PhasePreviewing
	st.Recipe = nil
	st.Pairings = nil
	st.FailureNote = ""
	st.Busy.Pairing = false

	if err := s.save(ctx, st); err != nil {
		return nil, err
	}
	return st.clone(), nil
}

// Generate runs the photo-to-recipe transform. At most one generation may
// be in flight per session; a second submit is rejected, not queued.
func (s *Service) Generate(ctx context.Context, id string) (*State, error) {
	lock := s.acquire(id)

	st, err := s.load(ctx, id)
	if err != nil {
		s.release(id, lock)
		return nil, err
	}
	if st.PhotoDataURI == "" {
		s.release(id, lock)
		return nil, apperrors.NewAppError(apperrors.CodeNoPhotoAttached,
			"No photo selected", "Upload an image of a dish first")
	}
	if st.Busy.Generating {
		s.release(id, lock)
		return nil, apperrors.NewAppError(apperrors.CodeGenerationInFlight,
			"A recipe is already being generated for this session", "")
	}

	if st.Recipe != nil {
		// Discarding the recipe invalidates its in-flight pairing fetch;
		// the result must not attach to whatever this generation produces.
		s.cancelPairingFetch(id)
		st.Rev++
	}

	st.Phase = PhaseGenerating
	st.Busy.Generating = true
	st.Recipe = nil
	st.Pairings = nil
	st.FailureNote = ""
	st.Busy.Pairing = false
	if err := s.save(ctx, st); err != nil {
		s.release(id, lock)
		return nil, err
	}
	photo := st.PhotoDataURI
	s.release(id, lock)

	out, gerr := s.gateway.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
		PhotoDataURI: photo,
	})

	lock = s.acquire(id)
	defer s.release(id, lock)

	st, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Busy.Generating = false

	if gerr != nil {
		st.Phase = PhaseFailed
		st.FailureNote = "There was a problem generating your recipe. Please try another image."
		if serr := s.save(ctx, st); serr != nil {
			return nil, serr
		}
		return nil, transformError("generate-from-photo", gerr)
	}
	if !out.IsFood {
		st.Phase = PhaseFailed
		st.FailureNote = "That photo doesn't appear to show food."
		if serr := s.save(ctx, st); serr != nil {
			return nil, serr
		}
		return nil, apperrors.NewAppError(apperrors.CodeNotFood,
			"No food detected in the photo", "")
	}

	st.Phase = PhaseGenerated
	st.Recipe = out.Recipe.Clone()
	st.Rev++
	st.Busy.Pairing = true
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.fetchPairings(id, st.Rev, st.Recipe.Core())
	return st.clone(), nil
}

// Simplify generates plain-language instructions for the current recipe.
// The result is cached on the recipe: repeated calls without an
// intervening remix make no further model calls.
func (s *Service) Simplify(ctx context.Context, id string) (*State, error) {
	lock := s.acquire(id)

	st, err := s.load(ctx, id)
	if err != nil {
		s.release(id, lock)
		return nil, err
	}
	if st.Recipe == nil {
		s.release(id, lock)
		return nil, apperrors.NewValidationError("no recipe to simplify")
	}
	if len(st.Recipe.SimpleInstructions) > 0 || st.Busy.Simplifying {
		snapshot := st.clone()
		s.release(id, lock)
		return snapshot, nil
	}

	st.Busy.Simplifying = true
	if err := s.save(ctx, st); err != nil {
		s.release(id, lock)
		return nil, err
	}
	rev := st.Rev
	text := renderRecipeText(st.Recipe)
	s.release(id, lock)

	out, gerr := s.gateway.Summarize(ctx, outbound.SummarizeInput{
		Recipe: text,
		Mode:   outbound.ModeSimple,
	})

	lock = s.acquire(id)
	defer s.release(id, lock)

	st, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Busy.Simplifying = false

	if gerr != nil {
		if serr := s.save(ctx, st); serr != nil {
			return nil, serr
		}
		return nil, transformError("summarize", gerr)
	}

	steps := splitSummary(out.Summary)
	if len(steps) == 0 {
		if serr := s.save(ctx, st); serr != nil {
			return nil, serr
		}
		return nil, apperrors.NewTransformError("summarize",
			fmt.Errorf("summary contained no instruction steps"))
	}

	// Apply only if the recipe the summary was requested for is still
	// the current one.
	if st.Rev == rev && st.Recipe != nil {
		st.Recipe.SimpleInstructions = steps
	}
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}
	return st.clone(), nil
}

// Remix regenerates the recipe guided by the user's request. On success
// the recipe is replaced wholesale, the cached simplification and pairing
// set are cleared, and a fresh pairing fetch starts for the new recipe.
// On failure the prior recipe is retained unchanged.
func (s *Service) Remix(ctx context.Context, id, prompt string) (*State, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("remix prompt is empty: enter what you want to change")
	}

	lock := s.acquire(id)

	st, err := s.load(ctx, id)
	if err != nil {
		s.release(id, lock)
		return nil, err
	}
	if st.Recipe == nil {
		s.release(id, lock)
		return nil, apperrors.NewValidationError("no recipe to remix")
	}

	st.Busy.Remixing = true
	if err := s.save(ctx, st); err != nil {
		s.release(id, lock)
		return nil, err
	}
	core := st.Recipe.Core()
	s.release(id, lock)

	out, gerr := s.gateway.Remix(ctx, outbound.RemixInput{Recipe: core, Prompt: prompt})

	lock = s.acquire(id)
	defer s.release(id, lock)

	st, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Busy.Remixing = false

	if gerr != nil {
		// Prior recipe, simplification, and pairings stay untouched.
		if serr := s.save(ctx, st); serr != nil {
			return nil, serr
		}
		return nil, transformError("remix", gerr)
	}

	s.cancelPairingFetch(id)

	remixed := out.Recipe
	st.Recipe = remixed.Clone()
	st.Pairings = nil
	st.Rev++
	st.Busy.Pairing = true
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.fetchPairings(id, st.Rev, st.Recipe.Core())
	return st.clone(), nil
}

// Save hands the current recipe and photo to the persistence gateway as an
// atomic unit. It requires a signed-in identity in the context.
func (s *Service) Save(ctx context.Context, id string) (*recipe.Saved, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, apperrors.NewUnauthorizedError("Please sign in to save recipes")
	}

	lock := s.acquire(id)

	st, err := s.load(ctx, id)
	if err != nil {
		s.release(id, lock)
		return nil, err
	}
	if st.Recipe == nil {
		s.release(id, lock)
		return nil, apperrors.NewValidationError("no recipe to save")
	}

	st.Busy.Saving = true
	if err := s.save(ctx, st); err != nil {
		s.release(id, lock)
		return nil, err
	}
	candidate := persist.Candidate{
		Name:               st.Recipe.Name,
		Ingredients:        append([]string(nil), st.Recipe.Ingredients...),
		Instructions:       append([]string(nil), st.Recipe.Instructions...),
		SimpleInstructions: append([]string(nil), st.Recipe.SimpleInstructions...),
		PhotoDataURI:       st.PhotoDataURI,
	}
	s.release(id, lock)

	rec, perr := s.persister.Save(ctx, identity, candidate)

	lock = s.acquire(id)
	defer s.release(id, lock)

	if st, err = s.load(ctx, id); err == nil {
		st.Busy.Saving = false
		_ = s.save(ctx, st)
	}

	if perr != nil {
		return nil, perr
	}
	return rec, nil
}

// ClipboardText renders the current recipe as copyable plain text. This is
// pure formatting, not an AI operation.
func (s *Service) ClipboardText(ctx context.Context, id string) (string, error) {
	lock := s.acquire(id)
	defer s.release(id, lock)

	st, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if st.Recipe == nil {
		return "", apperrors.NewValidationError("no recipe to copy")
	}
	return st.Recipe.ClipboardText(), nil
}

// fetchPairings starts the supplementary drink-pairing fetch for the given
// recipe revision. It cancels any still-pending fetch for the session, and
// the result is applied only while rev is still current, so a stale
// response can never overwrite pairings for a newer recipe. Failures are
// logged, never surfaced: pairing is supplementary to the recipe
// experience.
func (s *Service) fetchPairings(id string, rev int, core recipe.Recipe) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pairingTimeout)
	handle := &pairingHandle{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.pairingCancel[id]; ok {
		prev.cancel()
	}
	s.pairingCancel[id] = handle
	s.mu.Unlock()

	go func() {
		defer s.finishPairing(id, handle)

		set, err := s.gateway.SuggestDrinkPairing(ctx, outbound.SuggestDrinkPairingInput{
			RecipeName:        core.Name,
			RecipeIngredients: core.Ingredients,
		})

		lock := s.acquire(id)
		defer s.release(id, lock)

		st, lerr := s.load(context.Background(), id)
		if lerr != nil {
			return
		}
		if st.Rev != rev {
			// A newer recipe owns this session now; its own fetch will
			// fill in pairings.
			return
		}
		st.Busy.Pairing = false
		if err != nil {
			s.logger.Warn("drink pairing fetch failed",
				zap.String("session_id", id),
				zap.String("recipe", core.Name),
				zap.Error(err),
			)
		} else {
			st.Pairings = set
		}
		if serr := s.save(context.Background(), st); serr != nil {
			s.logger.Warn("failed to store pairing result",
				zap.String("session_id", id),
				zap.Error(serr),
			)
		}
	}()
}

// finishPairing releases a fetch's resources and removes its cancel entry
// unless a newer fetch has already replaced it.
func (s *Service) finishPairing(id string, handle *pairingHandle) {
	handle.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pairingCancel[id] == handle {
		delete(s.pairingCancel, id)
	}
}

func (s *Service) cancelPairingFetch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.pairingCancel[id]; ok {
		handle.cancel()
		delete(s.pairingCancel, id)
	}
}

// acquire takes the session's lock, creating the map entry on demand.
func (s *Service) acquire(id string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sessionLock{}
		s.locks[id] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// release unlocks and drops the map entry once no operation holds or
// awaits the lock, keeping the map bounded by in-flight work rather than
// by every session id ever seen.
func (s *Service) release(id string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs == 0 && s.locks[id] == lock {
		delete(s.locks, id)
	}
}

func (s *Service) load(ctx context.Context, id string) (*State, error) {
	data, err := s.store.Get(ctx, id)
	if err != nil {
		if err == outbound.ErrSessionNotFound {
			return nil, apperrors.NewSessionNotFoundError(id)
		}
		return nil, apperrors.Wrap(err, "failed to load session")
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, apperrors.Wrap(err, "corrupt session state")
	}
	return &st, nil
}

func (s *Service) save(ctx context.Context, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode session state")
	}
	if err := s.store.Set(ctx, st.ID, data, s.ttl); err != nil {
		return apperrors.Wrap(err, "failed to store session state")
	}
	return nil
}

// transformError wraps a gateway failure, except when the gateway itself
// reported the feature as unconfigured: that error carries its own status
// and passes through unchanged.
func transformError(operation string, err error) error {
	if apperrors.Is(err, apperrors.CodeServiceUnavailable) {
		return err
	}
	return apperrors.NewTransformError(operation, err)
}

// renderRecipeText flattens a recipe for the summarize transform.
func renderRecipeText(r *recipe.Recipe) string {
	return fmt.Sprintf("Ingredients:\n%s\n\nInstructions:\n%s",
		strings.Join(r.Ingredients, "\n"),
		strings.Join(r.Instructions, "\n"))
}

var stepNumberPrefix = regexp.MustCompile(`^\d+\.\s*`)

// splitSummary turns the model's free-text summary into an ordered step
// sequence: blank lines and an "instructions:" header are dropped, and a
// leading "N. " numbering token is stripped from each step.
func splitSummary(summary string) []string {
	var steps []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(strings.ToLower(line), "instructions:") {
			continue
		}
		steps = append(steps, stepNumberPrefix.ReplaceAllString(line, ""))
	}
	return steps
}
