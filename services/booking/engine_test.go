package booking

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	appointmentRepo "chairhop/database/repository/appointment"
	serviceRepo "chairhop/database/repository/service"
	"chairhop/config"
	"chairhop/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAppointmentRepo mimics the conditional-update semantics of the mongo
// repository in memory, so races exercise the same conflict paths.
type memAppointmentRepo struct {
	mu     sync.Mutex
	slots  map[string]*models.Appointment
	claims map[string]string // customerID -> appointmentID
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{
		slots:  make(map[string]*models.Appointment),
		claims: make(map[string]string),
	}
}

func (r *memAppointmentRepo) Create(ctx context.Context, apt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if apt.ID == "" {
		apt.ID = uuid.New().String()
	}
	apt.CreatedAt = time.Now().UTC()
	apt.UpdatedAt = apt.CreatedAt
	if apt.PaymentStatus == "" {
		apt.PaymentStatus = models.PaymentUnpaid
	}
	cp := *apt
	r.slots[apt.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (r *memAppointmentRepo) ListOpen(ctx context.Context, filter appointmentRepo.OpenSlotFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, apt := range r.slots {
		if !apt.Open() {
			continue
		}
		if filter.Location != "" && apt.Location != filter.Location {
			continue
		}
		if filter.StylistID != "" && apt.StylistID != filter.StylistID {
			continue
		}
		out = append(out, *apt)
	}
	return out, nil
}

func (r *memAppointmentRepo) ListRecentOpen(ctx context.Context, limit int) ([]models.Appointment, error) {
	open, _ := r.ListOpen(ctx, appointmentRepo.OpenSlotFilter{})
	if len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}

func (r *memAppointmentRepo) ListByStylist(ctx context.Context, stylistID string, status *models.AppointmentStatus) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, apt := range r.slots {
		if apt.StylistID != stylistID {
			continue
		}
		if status != nil && apt.Status != *status {
			continue
		}
		out = append(out, *apt)
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByCustomer(ctx context.Context, customerID string, status *models.AppointmentStatus) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, apt := range r.slots {
		if apt.CustomerID != customerID {
			continue
		}
		if status != nil && apt.Status != *status {
			continue
		}
		out = append(out, *apt)
	}
	return out, nil
}

func (r *memAppointmentRepo) ClaimSlot(ctx context.Context, id, customerID, selectedService string, addOns []models.AppointmentAddOn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok || apt.Status != models.StatusPending || apt.CustomerID != "" {
		return appointmentRepo.ErrConflict
	}
	apt.Status = models.StatusBooked
	apt.CustomerID = customerID
	apt.SelectedService = selectedService
	apt.AddOns = addOns
	apt.EverOccupied = true
	apt.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memAppointmentRepo) ConfirmSlot(ctx context.Context, id, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok || apt.Status != models.StatusPending || customerID == "" || apt.CustomerID != customerID {
		return appointmentRepo.ErrConflict
	}
	apt.Status = models.StatusBooked
	apt.EverOccupied = true
	return nil
}

func (r *memAppointmentRepo) ReleaseSlot(ctx context.Context, id string, status models.AppointmentStatus, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok || apt.Status != status || apt.CustomerID != customerID {
		return appointmentRepo.ErrConflict
	}
	apt.Status = models.StatusPending
	apt.CustomerID = ""
	apt.SelectedService = ""
	apt.AddOns = nil
	return nil
}

func (r *memAppointmentRepo) CompleteSlot(ctx context.Context, id, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok || apt.Status != models.StatusBooked || apt.CustomerID != customerID {
		return appointmentRepo.ErrConflict
	}
	apt.Status = models.StatusCompleted
	return nil
}

func (r *memAppointmentRepo) DeleteOpenSlot(ctx context.Context, id, stylistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok || apt.Status != models.StatusPending || apt.CustomerID != "" || apt.StylistID != stylistID || apt.EverOccupied {
		return appointmentRepo.ErrConflict
	}
	delete(r.slots, id)
	return nil
}

func (r *memAppointmentRepo) InsertBookingClaim(ctx context.Context, customerID, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.claims[customerID]; exists {
		return appointmentRepo.ErrDuplicateClaim
	}
	r.claims[customerID] = appointmentID
	return nil
}

func (r *memAppointmentRepo) RemoveBookingClaim(ctx context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claims, customerID)
	return nil
}

func (r *memAppointmentRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	apt.PaymentStatus = status
	return nil
}

func (r *memAppointmentRepo) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.slots[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	apt.Embedding = vec
	return nil
}

func (r *memAppointmentRepo) ListMissingEmbedding(ctx context.Context, limit int) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, apt := range r.slots {
		if len(apt.Embedding) == 0 {
			out = append(out, *apt)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) CountAddOnRefs(ctx context.Context, serviceID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, apt := range r.slots {
		for _, a := range apt.AddOns {
			if a.ServiceID == serviceID {
				n++
			}
		}
	}
	return n, nil
}

type memServiceRepo struct {
	services map[string]models.Service
}

func (r *memServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	r.services[svc.ID] = *svc
	return nil
}

func (r *memServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrNotFound
	}
	return &svc, nil
}

func (r *memServiceRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.Service, error) {
	out := make(map[string]models.Service)
	for _, id := range ids {
		if svc, ok := r.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (r *memServiceRepo) ListByStylist(ctx context.Context, stylistID string, activeOnly bool) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range r.services {
		if svc.StylistID != stylistID {
			continue
		}
		if activeOnly && !svc.Active {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (r *memServiceRepo) Deactivate(ctx context.Context, id, stylistID string) error {
	svc, ok := r.services[id]
	if !ok || svc.StylistID != stylistID {
		return serviceRepo.ErrNotFound
	}
	svc.Active = false
	r.services[id] = svc
	return nil
}

func (r *memServiceRepo) Delete(ctx context.Context, id, stylistID string, refCount int64) error {
	if refCount > 0 {
		return serviceRepo.ErrStillReferenced
	}
	svc, ok := r.services[id]
	if !ok || svc.StylistID != stylistID {
		return serviceRepo.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func testCatalog() config.AddOnCatalog {
	return config.AddOnCatalog{
		Salons: map[string][]string{
			"Glow Lounge": {"Scalp Massage - $15", "Hair Mask - $22"},
		},
		Defaults: []string{"Hot Towel Treatment - $5"},
	}
}

func newTestEngine() (*DefaultBookingService, *memAppointmentRepo, *memServiceRepo) {
	repo := newMemAppointmentRepo()
	svcRepo := &memServiceRepo{services: make(map[string]models.Service)}
	engine := &DefaultBookingService{
		Repo:     repo,
		Services: svcRepo,
		AddOns:   testCatalog(),
	}
	return engine, repo, svcRepo
}

func seedSlot(t *testing.T, engine *DefaultBookingService, stylistID string) *models.Appointment {
	t.Helper()
	apt, err := engine.CreateSlot(context.Background(), Actor{ID: stylistID, Role: models.RoleStylist}, CreateSlotInput{
		Time:     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		Location: "Atlanta",
		Salon:    "Glow Lounge",
		Services: "Silk Press - $85, Knotless Braids - $200",
	})
	require.NoError(t, err)
	return apt
}

func TestCreateSlotRejectsCustomers(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.CreateSlot(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, CreateSlotInput{
		Time: time.Now().Format(time.RFC3339), Location: "x",
	})
	assert.Equal(t, ErrNotOwner, err)
}

func TestCreateSlotRejectsBadTime(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.CreateSlot(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, CreateSlotInput{
		Time: "tomorrow at noon", Location: "x",
	})
	assert.Error(t, err)
}

func TestBookTransitionsToBooked(t *testing.T) {
	engine, repo, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	booked, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, apt.ID, BookRequest{
		SelectedService: "Silk Press - $85",
		AddOns:          []models.AddOnSpec{{Descriptor: "Scalp Massage - $15"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, booked.Status)
	assert.Equal(t, "c1", booked.CustomerID)
	require.Len(t, booked.AddOns, 1)
	assert.Equal(t, 15.0, booked.AddOns[0].Price)

	// Claim is held while booked.
	assert.Equal(t, apt.ID, repo.claims["c1"])
}

func TestBookRejectsSecondBooking(t *testing.T) {
	engine, _, _ := newTestEngine()
	first := seedSlot(t, engine, "s1")
	second := seedSlot(t, engine, "s2")

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), customer, first.ID, BookRequest{})
	require.NoError(t, err)

	_, err = engine.Book(context.Background(), customer, second.ID, BookRequest{})
	assert.Equal(t, ErrAlreadyOccupied, err)
}

func TestBookRejectsOccupiedSlot(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	_, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, apt.ID, BookRequest{})
	require.NoError(t, err)

	_, err = engine.Book(context.Background(), Actor{ID: "c2", Role: models.RoleCustomer}, apt.ID, BookRequest{})
	assert.Equal(t, ErrAlreadyOccupied, err)
}

func TestBookInvalidAddOnLeavesSlotOpen(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	_, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, apt.ID, BookRequest{
		AddOns: []models.AddOnSpec{{Descriptor: "Unicorn Glitter - $99"}},
	})
	assert.Equal(t, ErrInvalidAddOn, err)

	fresh, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Open())
}

func TestConcurrentBookSameSlotOneWinner(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	const customers = 16
	var wg sync.WaitGroup
	errs := make([]error, customers)
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := Actor{ID: uuid.New().String(), Role: models.RoleCustomer}
			_, errs[i] = engine.Book(context.Background(), actor, apt.ID, BookRequest{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, IsCode(err, "already_occupied") || IsCode(err, "not_available"), "unexpected error %v", err)
		}
	}
	assert.Equal(t, 1, winners)

	fresh, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, fresh.Status)
	assert.NotEmpty(t, fresh.CustomerID)
}

func TestConcurrentBookSameCustomerOneWin(t *testing.T) {
	engine, _, _ := newTestEngine()

	const slots = 8
	ids := make([]string, slots)
	for i := range ids {
		ids[i] = seedSlot(t, engine, uuid.New().String()).ID
	}

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	var wg sync.WaitGroup
	errs := make([]error, slots)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = engine.Book(context.Background(), customer, id, BookRequest{})
		}(i, id)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "one customer must never sit in two chairs")
}

func TestCancelReopensSlot(t *testing.T) {
	engine, repo, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), customer, apt.ID, BookRequest{
		SelectedService: "Silk Press - $85",
		AddOns:          []models.AddOnSpec{{Descriptor: "Hair Mask - $22"}},
	})
	require.NoError(t, err)

	released, err := engine.Cancel(context.Background(), customer, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, released.Status)
	assert.Empty(t, released.CustomerID)
	assert.Empty(t, released.SelectedService)
	assert.Empty(t, released.AddOns)
	assert.NotContains(t, repo.claims, "c1")

	// The reopened slot is claimable again, including by the same customer.
	_, err = engine.Book(context.Background(), customer, apt.ID, BookRequest{})
	assert.NoError(t, err)
}

func TestStylistCancelNotifiesNothingButWorks(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	_, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, apt.ID, BookRequest{})
	require.NoError(t, err)

	released, err := engine.Cancel(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	require.NoError(t, err)
	assert.True(t, released.Open())
}

func TestCompleteFreesCustomerForNewBookings(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")
	next := seedSlot(t, engine, "s2")

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), customer, apt.ID, BookRequest{})
	require.NoError(t, err)

	done, err := engine.Complete(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, "c1", done.CustomerID, "completion keeps the occupant on record")

	_, err = engine.Book(context.Background(), customer, next.ID, BookRequest{})
	assert.NoError(t, err)
}

func TestCompleteRequiresBooked(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	_, err := engine.Complete(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)
}

func TestCancelCompletedSlotRejected(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), customer, apt.ID, BookRequest{})
	require.NoError(t, err)
	_, err = engine.Complete(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	require.NoError(t, err)

	_, err = engine.Cancel(context.Background(), customer, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)
}

func TestDeleteOnlyOpenSlots(t *testing.T) {
	engine, _, _ := newTestEngine()
	open := seedSlot(t, engine, "s1")
	taken := seedSlot(t, engine, "s1")

	_, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, taken.ID, BookRequest{})
	require.NoError(t, err)

	stylist := Actor{ID: "s1", Role: models.RoleStylist}
	assert.NoError(t, engine.Delete(context.Background(), stylist, open.ID))
	assert.Equal(t, ErrNotAvailable, engine.Delete(context.Background(), stylist, taken.ID))
}

func TestAcceptConfirmsRequestedSlot(t *testing.T) {
	engine, repo, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	// A requested-but-unconfirmed state, as imported from older data.
	repo.mu.Lock()
	repo.slots[apt.ID].CustomerID = "c1"
	repo.mu.Unlock()

	confirmed, err := engine.Accept(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, confirmed.Status)
	assert.Equal(t, apt.ID, repo.claims["c1"])
}

func TestAcceptRejectsUnoccupiedSlot(t *testing.T) {
	engine, _, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	_, err := engine.Accept(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)
}

func TestValidateAddOnsCatalogReference(t *testing.T) {
	engine, _, svcRepo := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	svcRepo.services["svc-1"] = models.Service{ID: "svc-1", StylistID: "s1", Name: "Beaded Ends", PriceCents: 2500, Active: true}
	svcRepo.services["svc-2"] = models.Service{ID: "svc-2", StylistID: "other", Name: "Foreign", PriceCents: 1000, Active: true}
	svcRepo.services["svc-3"] = models.Service{ID: "svc-3", StylistID: "s1", Name: "Retired", PriceCents: 1000, Active: false}

	fresh, _ := engine.GetSlot(context.Background(), apt.ID)

	addOns, err := engine.ValidateAddOns(context.Background(), fresh, []models.AddOnSpec{{ServiceID: "svc-1"}})
	require.NoError(t, err)
	require.Len(t, addOns, 1)
	assert.Equal(t, "svc-1", addOns[0].ServiceID)

	_, err = engine.ValidateAddOns(context.Background(), fresh, []models.AddOnSpec{{ServiceID: "svc-2"}})
	assert.Equal(t, ErrInvalidAddOn, err, "another stylist's service is not bookable here")

	_, err = engine.ValidateAddOns(context.Background(), fresh, []models.AddOnSpec{{ServiceID: "svc-3"}})
	assert.Equal(t, ErrInvalidAddOn, err, "inactive services are not bookable")

	_, err = engine.ValidateAddOns(context.Background(), fresh, []models.AddOnSpec{{}})
	assert.Equal(t, ErrInvalidAddOn, err)
}

func TestQuoteThroughEngine(t *testing.T) {
	engine, _, svcRepo := newTestEngine()
	apt := seedSlot(t, engine, "s1")
	svcRepo.services["svc-1"] = models.Service{ID: "svc-1", StylistID: "s1", Name: "Beaded Ends", PriceCents: 2550, Active: true}

	_, err := engine.Book(context.Background(), Actor{ID: "c1", Role: models.RoleCustomer}, apt.ID, BookRequest{
		SelectedService: "Knotless Braids - $200",
		AddOns: []models.AddOnSpec{
			{ServiceID: "svc-1"},
			{Descriptor: "Scalp Massage - $15"},
		},
	})
	require.NoError(t, err)

	quote, err := engine.Quote(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.BasePrice)
	assert.Equal(t, 40.5, quote.AddOnTotal)
	assert.Equal(t, 240.5, quote.TotalPrice)
}

func TestRelevantAddOnsFallsBackToDefaults(t *testing.T) {
	engine, _, _ := newTestEngine()

	known := &models.Appointment{Salon: "Glow Lounge"}
	unknown := &models.Appointment{Salon: "Pop-Up Chair"}

	assert.Equal(t, []string{"Scalp Massage - $15", "Hair Mask - $22"}, engine.RelevantAddOns(known))
	assert.Equal(t, []string{"Hot Towel Treatment - $5"}, engine.RelevantAddOns(unknown))
}

func TestDeleteRejectsPreviouslyOccupiedSlot(t *testing.T) {
	engine, repo, _ := newTestEngine()
	apt := seedSlot(t, engine, "s1")

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), customer, apt.ID, BookRequest{})
	require.NoError(t, err)
	_, err = engine.Cancel(context.Background(), customer, apt.ID)
	require.NoError(t, err)

	// The slot is open again but keeps its occupancy history.
	reopened, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)
	require.True(t, reopened.Open())

	err = engine.Delete(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)
	repo.mu.Lock()
	_, stillThere := repo.slots[apt.ID]
	repo.mu.Unlock()
	assert.True(t, stillThere)
}

// Random walks over the lifecycle must never leave a slot holding a customer
// outside of booked/completed, no matter which operations fail along the way.
func TestRandomTransitionsPreserveOccupancyInvariant(t *testing.T) {
	engine, repo, _ := newTestEngine()
	rng := rand.New(rand.NewSource(42))

	var slots []*models.Appointment
	for i := 0; i < 6; i++ {
		slots = append(slots, seedSlot(t, engine, fmt.Sprintf("s%d", i%2)))
	}
	customers := []Actor{
		{ID: "c1", Role: models.RoleCustomer},
		{ID: "c2", Role: models.RoleCustomer},
		{ID: "c3", Role: models.RoleCustomer},
	}

	ctx := context.Background()
	for step := 0; step < 400; step++ {
		apt := slots[rng.Intn(len(slots))]
		customer := customers[rng.Intn(len(customers))]
		stylist := Actor{ID: apt.StylistID, Role: models.RoleStylist}

		// Errors are expected constantly here; only the end state matters.
		switch rng.Intn(5) {
		case 0:
			engine.Book(ctx, customer, apt.ID, BookRequest{})
		case 1:
			engine.Cancel(ctx, customer, apt.ID)
		case 2:
			engine.Cancel(ctx, stylist, apt.ID)
		case 3:
			engine.Complete(ctx, stylist, apt.ID)
		case 4:
			engine.Accept(ctx, stylist, apt.ID)
		}

		repo.mu.Lock()
		for id, slot := range repo.slots {
			if slot.CustomerID != "" {
				require.Contains(t, []models.AppointmentStatus{models.StatusBooked, models.StatusCompleted},
					slot.Status, "slot %s holds %s while %s", id, slot.CustomerID, slot.Status)
			}
		}
		for customerID, aptID := range repo.claims {
			held := repo.slots[aptID]
			require.NotNil(t, held)
			require.Equal(t, customerID, held.CustomerID, "claim for %s points at a slot someone else holds", customerID)
		}
		repo.mu.Unlock()
	}
}

// staleReadRepo serves one canned snapshot from GetByID, then delegates. It
// simulates a caller acting on a read taken before a concurrent transition.
type staleReadRepo struct {
	*memAppointmentRepo
	stale *models.Appointment
}

func (r *staleReadRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	if r.stale != nil && r.stale.ID == id {
		cp := *r.stale
		r.stale = nil
		return &cp, nil
	}
	return r.memAppointmentRepo.GetByID(ctx, id)
}

func TestCancelFromStaleReadLosesToCommittedBooking(t *testing.T) {
	base := newMemAppointmentRepo()
	repo := &staleReadRepo{memAppointmentRepo: base}
	engine := &DefaultBookingService{Repo: repo, AddOns: testCatalog()}

	apt := seedSlot(t, engine, "s1")
	openSnapshot, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)

	customer := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err = engine.Book(context.Background(), customer, apt.ID, BookRequest{})
	require.NoError(t, err)

	// The stylist's cancel acts on a snapshot taken while the slot was still
	// open. It must lose to the committed booking, not revert it.
	repo.stale = openSnapshot
	_, err = engine.Cancel(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)

	current, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, current.Status)
	assert.Equal(t, "c1", current.CustomerID)
	assert.Equal(t, apt.ID, base.claims["c1"])

	// A cancel from a fresh read still works and frees the claim.
	_, err = engine.Cancel(context.Background(), customer, apt.ID)
	require.NoError(t, err)
	assert.NotContains(t, base.claims, "c1")

	other := seedSlot(t, engine, "s2")
	_, err = engine.Book(context.Background(), customer, other.ID, BookRequest{})
	assert.NoError(t, err)
}

func TestCompleteFromStaleReadLosesToNewOccupant(t *testing.T) {
	base := newMemAppointmentRepo()
	repo := &staleReadRepo{memAppointmentRepo: base}
	engine := &DefaultBookingService{Repo: repo, AddOns: testCatalog()}

	apt := seedSlot(t, engine, "s1")
	c1 := Actor{ID: "c1", Role: models.RoleCustomer}
	_, err := engine.Book(context.Background(), c1, apt.ID, BookRequest{})
	require.NoError(t, err)

	firstBooking, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)

	// c1 backs out and c2 takes the chair before the stylist's complete runs.
	_, err = engine.Cancel(context.Background(), c1, apt.ID)
	require.NoError(t, err)
	_, err = engine.Book(context.Background(), Actor{ID: "c2", Role: models.RoleCustomer}, apt.ID, BookRequest{})
	require.NoError(t, err)

	repo.stale = firstBooking
	_, err = engine.Complete(context.Background(), Actor{ID: "s1", Role: models.RoleStylist}, apt.ID)
	assert.Equal(t, ErrNotAvailable, err)

	current, err := engine.GetSlot(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, current.Status)
	assert.Equal(t, "c2", current.CustomerID)
	assert.Equal(t, apt.ID, base.claims["c2"])
}
