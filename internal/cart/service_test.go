package cart

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	pkgcart "github.com/canvasshub/canvasshub-backend/pkg/cart"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) CartKey(userID string) string { return "cc:cart:" + userID }

type stubProducts struct {
	byID map[uuid.UUID]*product.ProductDTO
}

func (s stubProducts) GetActive(_ context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

type stubCanvass struct {
	got  *canvass.CreateInput
	err  error
	resp *canvass.RequestDTO
}

func (s *stubCanvass) Create(_ context.Context, input canvass.CreateInput) (*canvass.RequestDTO, error) {
	s.got = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type harness struct {
	svc     Service
	store   *memoryStore
	canvass *stubCanvass
	chair   *product.ProductDTO
	mouse   *product.ProductDTO
	user    uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	chair := &product.ProductDTO{ID: uuid.New(), Name: "Office Desk Chair", Category: "Furniture", Status: enums.ProductStatusActive}
	mouse := &product.ProductDTO{ID: uuid.New(), Name: "Wireless Mouse", Category: "Electronics", Status: enums.ProductStatusActive}
	store := newMemoryStore()
	submit := &stubCanvass{resp: &canvass.RequestDTO{ID: uuid.New(), Status: enums.CanvassStatusPending}}

	svc, err := NewService(ServiceParams{
		Store:    store,
		Products: stubProducts{byID: map[uuid.UUID]*product.ProductDTO{chair.ID: chair, mouse.ID: mouse}},
		Canvass:  submit,
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return &harness{svc: svc, store: store, canvass: submit, chair: chair, mouse: mouse, user: uuid.New()}
}

func intPtr(v int) *int { return &v }

func TestAddItemMergesAndPersists(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	got, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "Office Desk Chair", got.Items[0].Name)
	assert.Equal(t, time.Hour, h.store.ttls[h.store.CartKey(h.user.String())])

	reloaded, err := h.svc.Get(ctx, h.user)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded)
}

func TestAddItemUnknownProduct(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.AddItem(context.Background(), h.user, AddItemRequest{ProductID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Empty(t, h.store.values)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	_, err = h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.mouse.ID, Quantity: intPtr(3)})
	require.NoError(t, err)

	got, err := h.svc.UpdateQuantity(ctx, h.user, h.chair.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalQuantity)

	got, err = h.svc.UpdateQuantity(ctx, h.user, h.chair.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalLines)

	got, err = h.svc.RemoveItem(ctx, h.user, h.mouse.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Zero(t, got.TotalQuantity)
}

func TestEmptyCartAndClear(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got, err := h.svc.Get(ctx, h.user)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)

	_, err = h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID})
	require.NoError(t, err)
	require.NoError(t, h.svc.Clear(ctx, h.user))
	assert.Empty(t, h.store.values)
}

func TestCorruptStateIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.store.values[h.store.CartKey(h.user.String())] = "{not json"

	got, err := h.svc.Get(context.Background(), h.user)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestStoreFailureIsDependencyError(t *testing.T) {
	h := newHarness(t)
	h.store.getErr = errors.New("connection refused")

	_, err := h.svc.Get(context.Background(), h.user)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestSubmitSendsCartInOrderAndClears(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	_, err = h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.mouse.ID, Quantity: intPtr(3)})
	require.NoError(t, err)

	notes := "for the new office"
	created, err := h.svc.Submit(ctx, h.user, SubmitRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, h.canvass.resp.ID, created.ID)

	require.NotNil(t, h.canvass.got)
	assert.Equal(t, h.user, h.canvass.got.UserID)
	assert.Equal(t, []canvass.ItemInput{
		{ProductID: h.chair.ID, Quantity: 2},
		{ProductID: h.mouse.ID, Quantity: 3},
	}, h.canvass.got.Items)
	assert.Equal(t, &notes, h.canvass.got.Notes)
	assert.Empty(t, h.store.values)
}

func TestRepeatedHugeAddsStaySubmittable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID, Quantity: intPtr(math.MaxInt)})
		require.NoError(t, err)
	}

	dto, err := h.svc.Get(ctx, h.user)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, pkgcart.MaxLineQuantity, dto.Items[0].Quantity)
	assert.Equal(t, pkgcart.MaxLineQuantity, dto.TotalQuantity)

	_, err = h.svc.Submit(ctx, h.user, SubmitRequest{})
	require.NoError(t, err)
	assert.Equal(t, []canvass.ItemInput{{ProductID: h.chair.ID, Quantity: pkgcart.MaxLineQuantity}}, h.canvass.got.Items)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.AddItem(ctx, h.user, AddItemRequest{ProductID: h.chair.ID})
	require.NoError(t, err)
	h.canvass.err = pkgerrors.New(pkgerrors.CodeValidation, "unknown product reference")

	_, err = h.svc.Submit(ctx, h.user, SubmitRequest{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	got, err := h.svc.Get(ctx, h.user)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestMissingUserRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Get(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
