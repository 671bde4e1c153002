package clubs

import (
	"context"
	"errors"
	"testing"

	"github.com/Togather-Foundation/clubhub/internal/validation"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	createFn func(ctx context.Context, params CreateParams) (*Club, error)
	updateFn func(ctx context.Context, id string, apply func(*Club) error) (*Club, error)
}

func (s *stubRepo) List(ctx context.Context) ([]Club, error) { return nil, nil }

func (s *stubRepo) Get(ctx context.Context, id string) (*Club, error) { return nil, ErrNotFound }

func (s *stubRepo) Create(ctx context.Context, params CreateParams) (*Club, error) {
	return s.createFn(ctx, params)
}

func (s *stubRepo) Update(ctx context.Context, id string, apply func(*Club) error) (*Club, error) {
	return s.updateFn(ctx, id, apply)
}

func (s *stubRepo) Delete(ctx context.Context, id string) error { return ErrNotFound }

func (s *stubRepo) IncrementMembers(ctx context.Context, id string) error { return nil }

func (s *stubRepo) DecrementMembers(ctx context.Context, id string) error { return nil }

func strPtr(s string) *string { return &s }

func TestCreateSanitizesAndValidates(t *testing.T) {
	var got CreateParams
	svc := NewService(&stubRepo{createFn: func(_ context.Context, params CreateParams) (*Club, error) {
		got = params
		return &Club{ID: "c1", Name: params.Name}, nil
	}})

	club, err := svc.Create(context.Background(), CreateParams{
		Name:        "  <b>Chess Club</b> ",
		Description: "Strategy & tactics",
		Category:    "Games",
	})

	require.NoError(t, err)
	require.Equal(t, "c1", club.ID)
	require.Equal(t, "Chess Club", got.Name)
	require.Equal(t, "Strategy & tactics", got.Description)
}

func TestCreateStripsEntityEncodedMarkup(t *testing.T) {
	var got CreateParams
	svc := NewService(&stubRepo{createFn: func(_ context.Context, params CreateParams) (*Club, error) {
		got = params
		return &Club{ID: "c1"}, nil
	}})

	_, err := svc.Create(context.Background(), CreateParams{
		Name:        "&lt;script&gt;alert(1)&lt;/script&gt;Chess",
		Description: "&lt;img src=x onerror=alert(1)&gt;Openings",
		Category:    "Games",
	})

	require.NoError(t, err)
	require.Equal(t, "Chess", got.Name)
	require.Equal(t, "Openings", got.Description)
	require.NotContains(t, got.Name+got.Description, "<")
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(&stubRepo{createFn: func(context.Context, CreateParams) (*Club, error) {
		t.Fatal("repository must not be called for invalid payloads")
		return nil, nil
	}})

	_, err := svc.Create(context.Background(), CreateParams{Name: "<i></i>"})

	verr, ok := validation.As(err)
	require.True(t, ok)
	require.Equal(t, "Invalid club data", verr.Message)
	require.Equal(t, "is required", verr.Details()["name"])
	require.Equal(t, "is required", verr.Details()["description"])
	require.Equal(t, "is required", verr.Details()["category"])
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	existing := Club{ID: "c1", Name: "Chess", Description: "old", Category: "Games", MemberCount: 4}
	svc := NewService(&stubRepo{updateFn: func(_ context.Context, id string, apply func(*Club) error) (*Club, error) {
		require.Equal(t, "c1", id)
		c := existing
		require.NoError(t, apply(&c))
		return &c, nil
	}})

	updated, err := svc.Update(context.Background(), "c1", UpdateParams{Description: strPtr("new")})

	require.NoError(t, err)
	require.Equal(t, "Chess", updated.Name)
	require.Equal(t, "new", updated.Description)
	require.Equal(t, "Games", updated.Category)
	require.Equal(t, 4, updated.MemberCount)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	svc := NewService(&stubRepo{updateFn: func(context.Context, string, func(*Club) error) (*Club, error) {
		t.Fatal("repository must not be called for invalid payloads")
		return nil, nil
	}})

	_, err := svc.Update(context.Background(), "c1", UpdateParams{Name: strPtr("   ")})

	_, ok := validation.As(err)
	require.True(t, ok)
}

func TestUpdatePropagatesNotFound(t *testing.T) {
	svc := NewService(&stubRepo{updateFn: func(context.Context, string, func(*Club) error) (*Club, error) {
		return nil, ErrNotFound
	}})

	_, err := svc.Update(context.Background(), "missing", UpdateParams{Name: strPtr("x")})

	require.True(t, errors.Is(err, ErrNotFound))
}
