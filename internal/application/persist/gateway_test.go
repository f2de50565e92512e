package persist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/photodish/v1/internal/infrastructure/auth"
	apperrors "github.com/photodish/v1/pkg/errors"
	"github.com/photodish/v1/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway() (*Gateway, *testutils.FakeRecipeRepository, *testutils.FakeStorageService) {
	repo := testutils.NewFakeRecipeRepository()
	storage := testutils.NewFakeStorageService()
	return NewGateway(repo, storage, zap.NewNop()), repo, storage
}

func validCandidate() Candidate {
	return Candidate{
		Name:         "Miso Ramen",
		Ingredients:  []string{"4 cups dashi", "2 tbsp miso paste", "fresh noodles"},
		Instructions: []string{"Warm the dashi.", "Whisk in the miso.", "Cook the noodles."},
		PhotoDataURI: testutils.PhotoDataURI(),
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	identity := &auth.Identity{UID: "user-42"}

	t.Run("NoIdentity_ShouldBeUnauthorized", func(t *testing.T) {
		gw, repo, storage := newTestGateway()

		_, err := gw.Save(ctx, nil, validCandidate())
		assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
		assert.Empty(t, storage.Uploads())
		assert.Empty(t, repo.Records())
	})

	t.Run("InvalidCandidate_ShouldFailValidationBeforeUpload", func(t *testing.T) {
		gw, repo, storage := newTestGateway()

		c := validCandidate()
		c.Ingredients = nil

		_, err := gw.Save(ctx, identity, c)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
		assert.Empty(t, storage.Uploads())
		assert.Empty(t, repo.Records())
	})

	t.Run("NonImagePhoto_ShouldFailValidation", func(t *testing.T) {
		gw, _, storage := newTestGateway()

		c := validCandidate()
		c.PhotoDataURI = "data:text/plain;base64,aGVsbG8="

		_, err := gw.Save(ctx, identity, c)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
		assert.Empty(t, storage.Uploads())
	})

	t.Run("UploadFailure_ShouldWriteNoRecord", func(t *testing.T) {
		gw, repo, storage := newTestGateway()
		storage.Err = errors.New("bucket unreachable")

		_, err := gw.Save(ctx, identity, validCandidate())
		assert.True(t, apperrors.Is(err, apperrors.CodePersistenceFailed))
		assert.Empty(t, repo.Records(), "a record must never reference a photo that was not stored")
	})

	t.Run("Success_ShouldUploadThenCreateRecord", func(t *testing.T) {
		gw, repo, storage := newTestGateway()

		saved, err := gw.Save(ctx, identity, validCandidate())
		require.NoError(t, err)

		uploads := storage.Uploads()
		require.Len(t, uploads, 1)
		assert.True(t, strings.HasPrefix(uploads[0].Key, "recipes/user-42/"))
		assert.Equal(t, "image/jpeg", uploads[0].ContentType)

		records := repo.Records()
		require.Len(t, records, 1)
		assert.Equal(t, saved.ID, records[0].ID)
		assert.Equal(t, "user-42", saved.UserID)
		assert.Equal(t, "Miso Ramen", saved.Name)
		assert.Contains(t, saved.PhotoURL, uploads[0].Key)
	})

	t.Run("ConcurrentSaves_ShouldGetDistinctKeys", func(t *testing.T) {
		gw, _, storage := newTestGateway()

		_, err := gw.Save(ctx, identity, validCandidate())
		require.NoError(t, err)
		_, err = gw.Save(ctx, identity, validCandidate())
		require.NoError(t, err)

		uploads := storage.Uploads()
		require.Len(t, uploads, 2)
		assert.NotEqual(t, uploads[0].Key, uploads[1].Key)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("NoIdentity_ShouldBeUnauthorized", func(t *testing.T) {
		gw, _, _ := newTestGateway()
		_, err := gw.List(ctx, nil)
		assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	})

	t.Run("ReturnsOnlyOwnRecordsNewestFirst", func(t *testing.T) {
		gw, _, _ := newTestGateway()

		alice := &auth.Identity{UID: "alice"}
		bob := &auth.Identity{UID: "bob"}

		first, err := gw.Save(ctx, alice, validCandidate())
		require.NoError(t, err)
		second, err := gw.Save(ctx, alice, validCandidate())
		require.NoError(t, err)
		_, err = gw.Save(ctx, bob, validCandidate())
		require.NoError(t, err)

		records, err := gw.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, second.ID, records[0].ID)
		assert.Equal(t, first.ID, records[1].ID)
	})
}
