package clubs

import (
	"context"

	"github.com/Togather-Foundation/clubhub/internal/sanitize"
	"github.com/Togather-Foundation/clubhub/internal/validation"
)

const invalidMessage = "Invalid club data"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Club, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Club, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Club, error) {
	params.Name = sanitize.Text(params.Name)
	params.Description = sanitize.Text(params.Description)
	params.Category = sanitize.Text(params.Category)
	params.BannerImage = sanitize.Text(params.BannerImage)
	params.LogoImage = sanitize.Text(params.LogoImage)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Club, error) {
	params.Name = sanitize.TextPtr(params.Name)
	params.Description = sanitize.TextPtr(params.Description)
	params.Category = sanitize.TextPtr(params.Category)
	params.BannerImage = sanitize.TextPtr(params.BannerImage)
	params.LogoImage = sanitize.TextPtr(params.LogoImage)

	if err := validation.Struct(invalidMessage, params); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, func(c *Club) error {
		params.Apply(c)
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
