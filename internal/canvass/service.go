package canvass

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgcart "github.com/canvasshub/canvasshub-backend/pkg/cart"
	"github.com/canvasshub/canvasshub-backend/pkg/db/models"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/metrics"
	"github.com/canvasshub/canvasshub-backend/pkg/outbox"
	"github.com/canvasshub/canvasshub-backend/pkg/outbox/payloads"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

const (
	msgEmptySubmission = "no items or document provided"
	msgUnknownProduct  = "unknown product reference"
	msgInvalidStatus   = "invalid status"
	msgNotFound        = "canvass request not found"
)

// Service is the canvass submission and triage boundary.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*RequestDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*RequestDTO, error)
	Get(ctx context.Context, input GetInput) (*RequestDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (RequestPage, error)
	ListAll(ctx context.Context, filters ListFilters, params pagination.Params) (RequestPage, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CatalogLookup returns the subset of ids that exist in the catalog.
type CatalogLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type ServiceParams struct {
	Repo    Repository
	Catalog CatalogLookup
	Tx      txRunner
	Outbox  outbox.Emitter
	Metrics *metrics.CanvassMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	catalog CatalogLookup
	tx      txRunner
	outbox  outbox.Emitter
	metrics *metrics.CanvassMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("canvass repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		tx:      params.Tx,
		outbox:  params.Outbox,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create validates the submission against the catalog and persists the request,
// its items and the created event in a single transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*RequestDTO, error) {
	result, err := s.create(ctx, input)
	switch {
	case err == nil:
		s.metrics.IncSubmission(metrics.OutcomeCreated)
		s.metrics.ObserveItems(len(result.Items))
	case isClientError(err):
		s.metrics.IncSubmission(metrics.OutcomeRejected)
	default:
		s.metrics.IncSubmission(metrics.OutcomeFailed)
	}
	return result, err
}

func (s *service) create(ctx context.Context, input CreateInput) (*RequestDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	pdfURL := trimmedOrNil(input.PDFURL)
	notes := trimmedOrNil(input.Notes)
	if len(input.Items) == 0 && pdfURL == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgEmptySubmission)
	}

	ids, err := distinctProductIDs(input.Items)
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, ids); err != nil {
		return nil, err
	}

	var created *models.CanvassRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request := &models.CanvassRequest{
			UserID: input.UserID,
			Status: enums.CanvassStatusPending,
			Notes:  notes,
			PDFURL: pdfURL,
		}
		if err := repo.CreateRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create canvass request")
		}

		items := make([]models.CanvassItem, 0, len(input.Items))
		refs := make([]payloads.CanvassItemRef, 0, len(input.Items))
		for i, line := range input.Items {
			items = append(items, models.CanvassItem{
				CanvassRequestID: request.ID,
				ProductID:        line.ProductID,
				Quantity:         line.Quantity,
				Position:         i,
			})
			refs = append(refs, payloads.CanvassItemRef{ProductID: line.ProductID, Quantity: line.Quantity})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create canvass items")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventCanvassRequestCreated,
			AggregateType: enums.AggregateCanvassRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{UserID: input.UserID, Role: enums.RoleUser},
			Data: payloads.CanvassRequestCreatedEvent{
				RequestID:   request.ID,
				UserID:      input.UserID,
				Status:      request.Status,
				Items:       refs,
				HasDocument: pdfURL != nil,
			},
			OccurredAt: s.now(),
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit canvass created event")
		}

		detail, loadErr := repo.FindDetail(ctx, request.ID)
		if loadErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "reload canvass request")
		}
		created = detail
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"canvass_request_id": created.ID.String(),
			"item_count":         len(created.Items),
			"has_document":       created.PDFURL != nil,
		}), "canvass request created")
	}
	return FromModel(created), nil
}

func (s *service) checkCatalog(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup products")
	}
	if len(found) >= len(ids) {
		return nil
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	missing := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msgUnknownProduct).
		WithDetails(map[string]any{"missing_product_ids": missing})
}

// UpdateStatus sets any of the five statuses regardless of the current one.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*RequestDTO, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	target, err := enums.ParseCanvassStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidStatus).
			WithDetails(map[string]any{"allowed": enums.CanvassStatuses()})
	}

	var updated *models.CanvassRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindRequest(ctx, input.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load canvass request")
		}

		now := s.now()
		if err := repo.UpdateStatus(ctx, current.ID, target, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update canvass status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventCanvassRequestStatusChanged,
			AggregateType: enums.AggregateCanvassRequest,
			AggregateID:   current.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: enums.RoleAdmin},
			Data: payloads.CanvassRequestStatusChangedEvent{
				RequestID:  current.ID,
				UserID:     current.UserID,
				FromStatus: current.Status,
				ToStatus:   target,
			},
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit canvass status event")
		}

		updated, err = repo.FindDetail(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload canvass request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusUpdate(string(target))
	return FromModel(updated), nil
}

// Get returns the request to its owner or to an admin. Other callers see not found.
func (s *service) Get(ctx context.Context, input GetInput) (*RequestDTO, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	request, err := s.repo.FindDetail(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load canvass request")
	}
	if input.ActorRole != enums.RoleAdmin && request.UserID != input.ActorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
	}
	return FromModel(request), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (RequestPage, error) {
	if userID == uuid.Nil {
		return RequestPage{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return RequestPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list canvass requests")
	}
	return pagination.NewPage(fromModels(rows), params, total), nil
}

func (s *service) ListAll(ctx context.Context, filters ListFilters, params pagination.Params) (RequestPage, error) {
	var status enums.CanvassStatus
	if raw := strings.TrimSpace(filters.Status); raw != "" {
		parsed, err := enums.ParseCanvassStatus(raw)
		if err != nil {
			return RequestPage{}, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidStatus)
		}
		status = parsed
	}
	rows, total, err := s.repo.List(ctx, status, params)
	if err != nil {
		return RequestPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list canvass requests")
	}
	return pagination.NewPage(fromModels(rows), params, total), nil
}

func distinctProductIDs(items []ItemInput) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i, line := range items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity > pkgcart.MaxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at most %d", pkgcart.MaxLineQuantity)).
				WithDetails(map[string]any{"index": i})
		}
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids, nil
}

func isClientError(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeUnauthorized, pkgerrors.CodeForbidden:
		return true
	}
	return false
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
