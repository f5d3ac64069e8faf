package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	pkgcart "github.com/canvasshub/canvasshub-backend/pkg/cart"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	redisclient "github.com/canvasshub/canvasshub-backend/pkg/redis"
)

// Service keeps one cart per user in Redis and hands it to the canvass service on submit.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*canvass.RequestDTO, error)
}

type stateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type productLookup interface {
	GetActive(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error)
}

type submitter interface {
	Create(ctx context.Context, input canvass.CreateInput) (*canvass.RequestDTO, error)
}

type ServiceParams struct {
	Store    stateStore
	Products productLookup
	Canvass  submitter
	TTL      time.Duration
	Logger   *logger.Logger
}

type service struct {
	store    stateStore
	products productLookup
	canvass  submitter
	ttl      time.Duration
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if params.Canvass == nil {
		return nil, fmt.Errorf("canvass service required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &service{
		store:    params.Store,
		products: params.Products,
		canvass:  params.Canvass,
		ttl:      params.TTL,
		logg:     params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fromStore(store), nil
}

// AddItem copies the product's display fields into the line at add time.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	p, err := s.products.GetActive(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	return s.mutate(ctx, userID, pkgcart.Add(pkgcart.Item{
		ID:          p.ID.String(),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}, quantity))
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	return s.mutate(ctx, userID, pkgcart.UpdateQuantity(productID.String(), quantity))
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, userID, pkgcart.Remove(productID.String()))
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.store.Del(ctx, s.store.CartKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Submit sends the whole cart once; the cart is cleared only after the request is persisted.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*canvass.RequestDTO, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := store.Items()
	items := make([]canvass.ItemInput, 0, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart holds an invalid product id")
		}
		items = append(items, canvass.ItemInput{ProductID: id, Quantity: line.Quantity})
	}

	created, err := s.canvass.Create(ctx, canvass.CreateInput{
		UserID: userID,
		Items:  items,
		Notes:  req.Notes,
		PDFURL: req.PDFURL,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Clear(ctx, userID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to clear cart after submission", err)
	}
	return created, nil
}

func (s *service) mutate(ctx context.Context, userID uuid.UUID, action pkgcart.Action) (*CartDTO, error) {
	store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	store.Dispatch(action)
	if err := s.save(ctx, userID, store); err != nil {
		return nil, err
	}
	return fromStore(store), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*pkgcart.Store, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	raw, err := s.store.Get(ctx, s.store.CartKey(userID.String()))
	if err != nil {
		if redisclient.IsNil(err) {
			return pkgcart.NewStore(pkgcart.State{}), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var state pkgcart.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt entry is dropped rather than blocking the user.
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding unreadable cart state")
		}
		return pkgcart.NewStore(pkgcart.State{}), nil
	}
	return pkgcart.NewStore(state), nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, store *pkgcart.Store) error {
	payload, err := json.Marshal(store.Snapshot())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(userID.String()), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}
