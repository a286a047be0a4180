package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "chairhop/database/repository/appointment"
	reviewRepo "chairhop/database/repository/review"
	serviceRepo "chairhop/database/repository/service"
	userRepo "chairhop/database/repository/user"
	"chairhop/config"
	"chairhop/models"
	"chairhop/services/notification"
	"chairhop/utils"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService over the appointment
// repository's conditional-update primitive.
type DefaultBookingService struct {
	Repo       appointmentRepo.AppointmentRepository
	Services   serviceRepo.ServiceRepository
	Users      userRepo.UserRepository
	Reviews    reviewRepo.ReviewRepository
	Notifier   notification.NotificationService
	EmbedQueue EmbeddingQueue
	AddOns     config.AddOnCatalog
}

func (s *DefaultBookingService) CreateSlot(ctx context.Context, actor Actor, input CreateSlotInput) (*models.Appointment, error) {
	if err := Authorize(actor, nil, TransitionCreate, time.Now()); err != nil {
		return nil, err
	}

	slotTime, err := time.Parse(time.RFC3339, input.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid slot time %q: %w", input.Time, err)
	}

	stylistName := ""
	if s.Users != nil {
		if u, uerr := s.Users.GetByID(ctx, actor.ID); uerr == nil {
			stylistName = u.Name
		}
	}

	apt := &models.Appointment{
		StylistID:   actor.ID,
		StylistName: stylistName,
		Time:        slotTime,
		Location:    input.Location,
		Salon:       input.Salon,
		Services:    input.Services,
		Status:      models.StatusPending,
	}
	if err := s.Repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	// Embedding is best-effort; a queue failure only delays semantic search
	// for this slot until the retry sweep picks it up.
	if s.EmbedQueue != nil {
		if qerr := s.EmbedQueue.EnqueueSlotEmbedding(ctx, apt.ID); qerr != nil {
			utils.GetLogger().Warn("failed to enqueue slot embedding",
				zap.String("appointmentId", apt.ID),
				zap.Error(qerr))
		}
	}
	return apt, nil
}

func (s *DefaultBookingService) GetSlot(ctx context.Context, id string) (*models.Appointment, error) {
	apt, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, ErrNotAvailable
	}
	return apt, err
}

func (s *DefaultBookingService) ListOpenSlots(ctx context.Context, filter appointmentRepo.OpenSlotFilter) ([]models.Appointment, error) {
	return s.Repo.ListOpen(ctx, filter)
}

func (s *DefaultBookingService) ListMine(ctx context.Context, actor Actor, status *models.AppointmentStatus) ([]models.Appointment, error) {
	if actor.Role == models.RoleStylist {
		return s.Repo.ListByStylist(ctx, actor.ID, status)
	}
	return s.Repo.ListByCustomer(ctx, actor.ID, status)
}

// Book claims a pending slot for a customer. The claim insert and the
// conditional slot update together form the atomic unit: the claim enforces
// one booked slot per customer, the conditional update enforces one customer
// per slot. A conflict from a benign read-then-write race is retried once
// before surfacing as a typed rejection.
func (s *DefaultBookingService) Book(ctx context.Context, actor Actor, id string, req BookRequest) (*models.Appointment, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, apt, TransitionBook, time.Now()); err != nil {
		return nil, err
	}
	if !apt.Open() {
		return nil, s.mapSlotConflict(apt)
	}

	addOns, err := s.ValidateAddOns(ctx, apt, req.AddOns)
	if err != nil {
		return nil, err
	}

	attempt := func() error {
		if cerr := s.Repo.InsertBookingClaim(ctx, actor.ID, id); cerr != nil {
			if errors.Is(cerr, appointmentRepo.ErrDuplicateClaim) {
				return ErrAlreadyOccupied
			}
			return cerr
		}
		if uerr := s.Repo.ClaimSlot(ctx, id, actor.ID, req.SelectedService, addOns); uerr != nil {
			// The slot claim failed, so the customer claim must not linger.
			if rerr := s.Repo.RemoveBookingClaim(ctx, actor.ID); rerr != nil {
				utils.GetLogger().Error("failed to release booking claim",
					zap.String("customerId", actor.ID),
					zap.Error(rerr))
			}
			return uerr
		}
		return nil
	}

	err = attempt()
	if errors.Is(err, appointmentRepo.ErrConflict) {
		// Re-read once to absorb a stale snapshot, then retry.
		fresh, gerr := s.Repo.GetByID(ctx, id)
		if gerr != nil || !fresh.Open() {
			return nil, s.mapSlotConflict(fresh)
		}
		err = attempt()
		if errors.Is(err, appointmentRepo.ErrConflict) {
			err = ErrAlreadyOccupied
		}
	}
	if err != nil {
		return nil, err
	}

	notification.Dispatch(s.Notifier, apt.StylistID,
		"New booking request",
		fmt.Sprintf("A customer booked your %s slot at %s", apt.Time.Format("Jan 2 15:04"), apt.Location),
		map[string]string{"type": "booking_created", "appointmentId": apt.ID})

	return s.Repo.GetByID(ctx, id)
}

// Accept confirms a customer-initiated request sitting on a pending slot.
func (s *DefaultBookingService) Accept(ctx context.Context, actor Actor, id string) (*models.Appointment, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, apt, TransitionAccept, time.Now()); err != nil {
		return nil, err
	}
	if apt.Status != models.StatusPending || apt.CustomerID == "" {
		return nil, ErrNotAvailable
	}

	if cerr := s.Repo.InsertBookingClaim(ctx, apt.CustomerID, id); cerr != nil {
		if errors.Is(cerr, appointmentRepo.ErrDuplicateClaim) {
			return nil, ErrAlreadyOccupied
		}
		return nil, cerr
	}
	if uerr := s.Repo.ConfirmSlot(ctx, id, apt.CustomerID); uerr != nil {
		if rerr := s.Repo.RemoveBookingClaim(ctx, apt.CustomerID); rerr != nil {
			utils.GetLogger().Error("failed to release booking claim",
				zap.String("customerId", apt.CustomerID),
				zap.Error(rerr))
		}
		if errors.Is(uerr, appointmentRepo.ErrConflict) {
			return nil, ErrNotAvailable
		}
		return nil, uerr
	}

	notification.Dispatch(s.Notifier, apt.CustomerID,
		"Booking Accepted!",
		fmt.Sprintf("%s accepted your appointment", apt.StylistName),
		map[string]string{"type": "booking_accepted", "appointmentId": apt.ID})

	return s.Repo.GetByID(ctx, id)
}

// Cancel clears the occupant, discards add-ons and reopens the slot. The
// timeslot itself is reusable, so there is no terminal cancelled state.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor Actor, id string) (*models.Appointment, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, apt, TransitionCancel, time.Now()); err != nil {
		return nil, err
	}
	if apt.Status != models.StatusPending && apt.Status != models.StatusBooked {
		return nil, ErrNotAvailable
	}

	// The release is pinned to the (status, occupant) pair this read saw, so
	// a cancel racing a concurrent book loses instead of reverting it.
	occupant := apt.CustomerID
	if uerr := s.Repo.ReleaseSlot(ctx, id, apt.Status, occupant); uerr != nil {
		if errors.Is(uerr, appointmentRepo.ErrConflict) {
			return nil, ErrNotAvailable
		}
		return nil, uerr
	}
	if occupant != "" {
		if rerr := s.Repo.RemoveBookingClaim(ctx, occupant); rerr != nil {
			utils.GetLogger().Error("failed to release booking claim",
				zap.String("customerId", occupant),
				zap.Error(rerr))
		}
	}

	if occupant != "" && actor.ID != occupant {
		notification.Dispatch(s.Notifier, occupant,
			"Appointment cancelled",
			fmt.Sprintf("%s cancelled your appointment", apt.StylistName),
			map[string]string{"type": "booking_cancelled", "appointmentId": apt.ID})
	} else if occupant != "" {
		notification.Dispatch(s.Notifier, apt.StylistID,
			"Booking cancelled",
			fmt.Sprintf("Your %s slot is open again", apt.Time.Format("Jan 2 15:04")),
			map[string]string{"type": "booking_cancelled", "appointmentId": apt.ID})
	}

	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) Complete(ctx context.Context, actor Actor, id string) (*models.Appointment, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, apt, TransitionComplete, time.Now()); err != nil {
		return nil, err
	}
	if apt.Status != models.StatusBooked {
		return nil, ErrNotAvailable
	}

	if uerr := s.Repo.CompleteSlot(ctx, id, apt.CustomerID); uerr != nil {
		if errors.Is(uerr, appointmentRepo.ErrConflict) {
			return nil, ErrNotAvailable
		}
		return nil, uerr
	}
	if apt.CustomerID != "" {
		if rerr := s.Repo.RemoveBookingClaim(ctx, apt.CustomerID); rerr != nil {
			utils.GetLogger().Error("failed to release booking claim",
				zap.String("customerId", apt.CustomerID),
				zap.Error(rerr))
		}
		notification.Dispatch(s.Notifier, apt.CustomerID,
			"Please Review",
			fmt.Sprintf("How was your appointment with %s?", apt.StylistName),
			map[string]string{"type": "review_request", "appointmentId": apt.ID})
	}

	return s.Repo.GetByID(ctx, id)
}

// Delete removes a never-occupied pending slot.
func (s *DefaultBookingService) Delete(ctx context.Context, actor Actor, id string) error {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, apt, TransitionDelete, time.Now()); err != nil {
		return err
	}

	if derr := s.Repo.DeleteOpenSlot(ctx, id, actor.ID); derr != nil {
		if errors.Is(derr, appointmentRepo.ErrConflict) {
			return ErrNotAvailable
		}
		return derr
	}
	return nil
}

func (s *DefaultBookingService) Quote(ctx context.Context, id string) (*Quote, error) {
	apt, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	var refIDs []string
	for _, addOn := range apt.AddOns {
		if addOn.ServiceID != "" {
			refIDs = append(refIDs, addOn.ServiceID)
		}
	}
	catalog := map[string]models.Service{}
	if len(refIDs) > 0 && s.Services != nil {
		catalog, err = s.Services.GetByIDs(ctx, refIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load add-on services: %w", err)
		}
	}

	quote := ResolveQuote(apt, catalog)
	return &quote, nil
}

// RelevantAddOns returns the legacy add-on menu for the slot's salon.
func (s *DefaultBookingService) RelevantAddOns(apt *models.Appointment) []string {
	return s.AddOns.ForSalon(apt.Salon)
}

// ValidateAddOns resolves requested add-on specs against the stylist's
// catalog and the slot's salon menu, rejecting anything that matches neither.
func (s *DefaultBookingService) ValidateAddOns(ctx context.Context, apt *models.Appointment, specs []models.AddOnSpec) ([]models.AppointmentAddOn, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	menu := s.RelevantAddOns(apt)
	addOns := make([]models.AppointmentAddOn, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.ServiceID != "":
			if s.Services == nil {
				return nil, ErrInvalidAddOn
			}
			svc, serr := s.Services.GetByID(ctx, spec.ServiceID)
			if serr != nil || !svc.Active || svc.StylistID != apt.StylistID {
				return nil, ErrInvalidAddOn
			}
			addOns = append(addOns, models.AppointmentAddOn{ServiceID: svc.ID})

		case spec.Descriptor != "":
			if !containsDescriptor(menu, spec.Descriptor) {
				return nil, ErrInvalidAddOn
			}
			price := ParseServicePrice(spec.Descriptor)
			if price <= 0 {
				return nil, ErrInvalidAddOn
			}
			addOns = append(addOns, models.AppointmentAddOn{
				ServiceName: ParseServiceName(spec.Descriptor),
				Price:       price,
			})

		default:
			return nil, ErrInvalidAddOn
		}
	}
	return addOns, nil
}

func containsDescriptor(menu []string, descriptor string) bool {
	for _, entry := range menu {
		if entry == descriptor {
			return true
		}
	}
	return false
}

func (s *DefaultBookingService) mapSlotConflict(apt *models.Appointment) error {
	if apt != nil && apt.CustomerID != "" {
		return ErrAlreadyOccupied
	}
	return ErrNotAvailable
}
