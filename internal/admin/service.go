package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
)

// StatsDTO is the admin dashboard summary.
type StatsDTO struct {
	TotalRequests   int64 `json:"total_requests"`
	PendingRequests int64 `json:"pending_requests"`
	TotalProducts   int64 `json:"total_products"`
	TotalUsers      int64 `json:"total_users"`
}

type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type requestCounter interface {
	Count(ctx context.Context, status enums.CanvassStatus) (int64, error)
}

type rowCounter interface {
	Count(ctx context.Context) (int64, error)
}

type service struct {
	requests requestCounter
	products rowCounter
	users    rowCounter
}

func NewService(requests requestCounter, products, users rowCounter) (Service, error) {
	if requests == nil || products == nil || users == nil {
		return nil, fmt.Errorf("admin stats requires request, product and user counters")
	}
	return &service{requests: requests, products: products, users: users}, nil
}

// Stats runs the four counts concurrently.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	var out StatsDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.requests.Count(gctx, "")
		out.TotalRequests = n
		return err
	})
	g.Go(func() error {
		n, err := s.requests.Count(gctx, enums.CanvassStatusPending)
		out.PendingRequests = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(gctx)
		out.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		out.TotalUsers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin stats")
	}
	return &out, nil
}
