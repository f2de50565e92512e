package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/ports/outbound"
)

// FakeTransformGateway is a scriptable transform gateway that records
// every call. It is safe for concurrent use; the pairing fetch runs on a
// background goroutine.
type FakeTransformGateway struct {
	mu sync.Mutex

	GenerateOut *outbound.GenerateFromPhotoOutput
	GenerateErr error
	SummaryOut  *outbound.SummarizeOutput
	SummaryErr  error
	RemixOut    *outbound.RemixOutput
	RemixErr    error
	PairingOut  *recipe.PairingSet
	PairingErr  error

	generateCalls int
	summaryCalls  int
	remixCalls    int
	pairingCalls  int

	// PairingStarted receives one value per pairing call.
	PairingStarted chan struct{}
	// PairingRelease, when non-nil, blocks the pairing call until a value
	// is sent, letting tests control when the background fetch resolves.
	PairingRelease chan struct{}

	// GenerateStarted receives one value per generate call.
	GenerateStarted chan struct{}
	// GenerateRelease, when non-nil, blocks the generate call until a
	// value is sent.
	GenerateRelease chan struct{}
}

// NewFakeTransformGateway creates a gateway scripted with sensible
// defaults: generation succeeds and pairing resolves immediately.
func NewFakeTransformGateway() *FakeTransformGateway {
	f := NewRecipeFactory(1)
	return &FakeTransformGateway{
		GenerateOut: &outbound.GenerateFromPhotoOutput{
			IsFood: true,
			Recipe: f.Recipe(),
		},
		SummaryOut: &outbound.SummarizeOutput{
			Summary: "1. Prep everything.\n2. Cook it.\n3. Serve warm.",
		},
		RemixOut:       &outbound.RemixOutput{Recipe: *f.Recipe()},
		PairingOut:      f.PairingSet(),
		PairingStarted:  make(chan struct{}, 16),
		GenerateStarted: make(chan struct{}, 16),
	}
}

func (g *FakeTransformGateway) GenerateFromPhoto(ctx context.Context, in outbound.GenerateFromPhotoInput) (*outbound.GenerateFromPhotoOutput, error) {
	g.mu.Lock()
	g.generateCalls++
	out, err := g.GenerateOut, g.GenerateErr
	release := g.GenerateRelease
	g.mu.Unlock()

	select {
	case g.GenerateStarted <- struct{}{}:
	default:
	}

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, err
}

func (g *FakeTransformGateway) Summarize(ctx context.Context, in outbound.SummarizeInput) (*outbound.SummarizeOutput, error) {
	g.mu.Lock()
	g.summaryCalls++
	out, err := g.SummaryOut, g.SummaryErr
	g.mu.Unlock()
	return out, err
}

func (g *FakeTransformGateway) Remix(ctx context.Context, in outbound.RemixInput) (*outbound.RemixOutput, error) {
	g.mu.Lock()
	g.remixCalls++
	out, err := g.RemixOut, g.RemixErr
	g.mu.Unlock()
	return out, err
}

func (g *FakeTransformGateway) SuggestDrinkPairing(ctx context.Context, in outbound.SuggestDrinkPairingInput) (*recipe.PairingSet, error) {
	g.mu.Lock()
	g.pairingCalls++
	out, err := g.PairingOut, g.PairingErr
	release := g.PairingRelease
	g.mu.Unlock()

	select {
	case g.PairingStarted <- struct{}{}:
	default:
	}

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, err
}

// GenerateCalls returns the number of GenerateFromPhoto calls.
func (g *FakeTransformGateway) GenerateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateCalls
}

// SummaryCalls returns the number of Summarize calls.
func (g *FakeTransformGateway) SummaryCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summaryCalls
}

// RemixCalls returns the number of Remix calls.
func (g *FakeTransformGateway) RemixCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remixCalls
}

// PairingCalls returns the number of SuggestDrinkPairing calls.
func (g *FakeTransformGateway) PairingCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pairingCalls
}

// FakeStorageService records uploads and can be scripted to fail.
type FakeStorageService struct {
	mu      sync.Mutex
	Err     error
	BaseURL string
	uploads []FakeUpload
}

// FakeUpload captures one Upload call.
type FakeUpload struct {
	Key         string
	Size        int
	ContentType string
}

// NewFakeStorageService creates an upload recorder.
func NewFakeStorageService() *FakeStorageService {
	return &FakeStorageService{BaseURL: "https://photos.test"}
}

func (s *FakeStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.uploads = append(s.uploads, FakeUpload{Key: key, Size: len(data), ContentType: contentType})
	return fmt.Sprintf("%s/%s", s.BaseURL, key), nil
}

// Uploads returns the recorded uploads.
func (s *FakeStorageService) Uploads() []FakeUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FakeUpload(nil), s.uploads...)
}

// FakeRecipeRepository is an in-memory recipe repository.
type FakeRecipeRepository struct {
	mu        sync.Mutex
	CreateErr error
	records   []*recipe.Saved
}

// NewFakeRecipeRepository creates an in-memory repository.
func NewFakeRecipeRepository() *FakeRecipeRepository {
	return &FakeRecipeRepository{}
}

func (r *FakeRecipeRepository) Create(ctx context.Context, rec *recipe.Saved) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *FakeRecipeRepository) FindByUserID(ctx context.Context, userID string) ([]*recipe.Saved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recipe.Saved
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

// Records returns every stored record.
func (r *FakeRecipeRepository) Records() []*recipe.Saved {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*recipe.Saved(nil), r.records...)
}
