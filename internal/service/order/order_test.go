package order

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/domain/order"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubOrderRepo is an in-memory OrderRepository.
type stubOrderRepo struct {
	orders []*order.Order
	events map[string][]order.OrderEvent

	createCalls int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{events: map[string][]order.OrderEvent{}}
}

func (r *stubOrderRepo) find(id string) *order.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r *stubOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.createCalls++
	o.CreatedAt = time.Now()
	cp := *o
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if o := r.find(id); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *stubOrderRepo) List(ctx context.Context, scope order.ListScope) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range r.orders {
		switch scope {
		case order.ScopeActive:
			if o.Binned() {
				continue
			}
		case order.ScopeBinned:
			if !o.Binned() {
				continue
			}
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepo) Update(ctx context.Context, id string, title string, status order.Status) error {
	o := r.find(id)
	if o == nil {
		return xerrors.ErrNotFound
	}
	o.Title = title
	o.Status = status
	return nil
}

func (r *stubOrderRepo) MoveToBin(ctx context.Context, id string, at time.Time) error {
	o := r.find(id)
	if o == nil || o.Binned() {
		return xerrors.ErrNotFound
	}
	o.DeletedAt.Time = at
	o.DeletedAt.Valid = true
	return nil
}

func (r *stubOrderRepo) Restore(ctx context.Context, id string) error {
	o := r.find(id)
	if o == nil || !o.Binned() {
		return xerrors.ErrNotFound
	}
	o.DeletedAt.Valid = false
	return nil
}

func (r *stubOrderRepo) Purge(ctx context.Context, id string) error {
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			delete(r.events, id)
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (r *stubOrderRepo) LinkClient(ctx context.Context, id string, clientID *string) error {
	o := r.find(id)
	if o == nil {
		return xerrors.ErrNotFound
	}
	if clientID == nil {
		o.ClientID.Valid = false
	} else {
		o.ClientID.String = *clientID
		o.ClientID.Valid = true
	}
	return nil
}

func (r *stubOrderRepo) AddEvent(ctx context.Context, e *order.OrderEvent) error {
	e.CreatedAt = time.Now()
	r.events[e.OrderID] = append([]order.OrderEvent{*e}, r.events[e.OrderID]...)
	return nil
}

func (r *stubOrderRepo) DeleteEvent(ctx context.Context, eventID string) error {
	for orderID, evs := range r.events {
		for i, e := range evs {
			if e.ID == eventID {
				r.events[orderID] = append(evs[:i], evs[i+1:]...)
				return nil
			}
		}
	}
	return xerrors.ErrNotFound
}

func (r *stubOrderRepo) ListEvents(ctx context.Context, orderID string) ([]order.OrderEvent, error) {
	return append([]order.OrderEvent{}, r.events[orderID]...), nil
}

func (r *stubOrderRepo) ListEventsForOrders(ctx context.Context, orderIDs []string) ([]order.OrderEvent, error) {
	out := []order.OrderEvent{}
	for _, id := range orderIDs {
		out = append(out, r.events[id]...)
	}
	return out, nil
}

func newTestService(t *testing.T) (*OrderService, *stubOrderRepo) {
	t.Helper()
	repo := newStubOrderRepo()
	return NewOrderService(repo, nil, nil, zap.NewNop()), repo
}

var (
	admin     = &user.Actor{ID: "01ADMIN", FullName: "Admin", Role: user.RoleAdmin}
	associate = &user.Actor{ID: "01ASSOC", FullName: "Associate", Role: user.RoleAssociate}
)

func TestCreateOrder_DefaultsToPending(t *testing.T) {
	svc, _ := newTestService(t)

	o, err := svc.CreateOrder(context.Background(), associate, &order.CreateOrderRequest{Title: "  Fix roof  "})
	require.NoError(t, err)
	require.Equal(t, "Fix roof", o.Title)
	require.Equal(t, order.StatusPending, o.Status)
	require.False(t, o.Binned())
	require.Empty(t, o.Events)
}

func TestCreateOrder_BlankTitleRejected(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), associate, &order.CreateOrderRequest{Title: "   "})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
	require.Zero(t, repo.createCalls)
}

func TestCreateOrder_RequiresActor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), nil, &order.CreateOrderRequest{Title: "Fix roof"})
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestBinRestoreCycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	// Associates may bin: the move is reversible.
	require.NoError(t, svc.MoveToBin(ctx, associate, o.ID))

	binned, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, binned.Binned())

	// Binning twice conflicts.
	require.ErrorIs(t, svc.MoveToBin(ctx, associate, o.ID), xerrors.ErrConflict)

	require.NoError(t, svc.Restore(ctx, associate, o.ID))

	restored, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.False(t, restored.Binned())

	// Restoring an active order conflicts.
	require.ErrorIs(t, svc.Restore(ctx, associate, o.ID), xerrors.ErrConflict)
}

func TestPurge_RequiresAdminAndBinnedState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Purge(ctx, associate, o.ID), xerrors.ErrForbidden)

	// Active orders cannot be purged even by an admin.
	require.ErrorIs(t, svc.Purge(ctx, admin, o.ID), xerrors.ErrConflict)

	require.NoError(t, svc.MoveToBin(ctx, admin, o.ID))
	require.NoError(t, svc.Purge(ctx, admin, o.ID))

	_, err = svc.GetOrder(ctx, o.ID)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestAddEvent_FrozenWhileBinned(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	note := "two pallets"
	e, err := svc.AddEvent(ctx, associate, o.ID, &order.AddEventRequest{
		Title:       "Materials delivered",
		Note:        &note,
		Attachments: []string{"photo.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, "Materials delivered", e.Title)
	require.True(t, e.Note.Valid)

	require.NoError(t, svc.MoveToBin(ctx, associate, o.ID))

	_, err = svc.AddEvent(ctx, associate, o.ID, &order.AddEventRequest{Title: "Too late"})
	require.ErrorIs(t, err, xerrors.ErrConflict)

	// The timeline thaws on restore.
	require.NoError(t, svc.Restore(ctx, associate, o.ID))
	_, err = svc.AddEvent(ctx, associate, o.ID, &order.AddEventRequest{Title: "Back on track"})
	require.NoError(t, err)
}

func TestAddEvent_BlankTitleRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	_, err = svc.AddEvent(ctx, associate, o.ID, &order.AddEventRequest{Title: " "})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestListOrders_ScopePartition(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Active one"})
	require.NoError(t, err)
	b, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Binned one"})
	require.NoError(t, err)
	require.NoError(t, svc.MoveToBin(ctx, associate, b.ID))

	active, err := svc.ListOrders(ctx, order.ScopeActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, a.ID, active[0].ID)

	binned, err := svc.ListOrders(ctx, order.ScopeBinned)
	require.NoError(t, err)
	require.Len(t, binned, 1)
	require.Equal(t, b.ID, binned[0].ID)

	all, err := svc.ListOrders(ctx, order.ScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestListOrders_AttachesTimelines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)
	_, err = svc.AddEvent(ctx, associate, o.ID, &order.AddEventRequest{Title: "Started"})
	require.NoError(t, err)

	all, err := svc.ListOrders(ctx, order.ScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Events, 1)
}

func TestUpdateOrder_PatchesTitleAndStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	status := string(order.StatusCompleted)
	updated, err := svc.UpdateOrder(ctx, associate, o.ID, &order.UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Fix roof", updated.Title)
	require.Equal(t, order.StatusCompleted, updated.Status)

	bad := "no_such_status"
	_, err = svc.UpdateOrder(ctx, associate, o.ID, &order.UpdateOrderRequest{Status: &bad})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestLinkClient_EmptyStringClears(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, associate, &order.CreateOrderRequest{Title: "Fix roof"})
	require.NoError(t, err)

	clientID := "01CLIENT"
	require.NoError(t, svc.LinkClient(ctx, associate, o.ID, &clientID))
	require.True(t, repo.find(o.ID).ClientID.Valid)

	empty := ""
	require.NoError(t, svc.LinkClient(ctx, associate, o.ID, &empty))
	require.False(t, repo.find(o.ID).ClientID.Valid)
}
