package booking

import (
	"context"
	"errors"
	"fmt"
	"math"

	reviewRepo "chairhop/database/repository/review"
	"chairhop/models"
)

const maxReviewContentLen = 500

// StylistReviewSummary aggregates a stylist's reviews with their average.
type StylistReviewSummary struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
}

// LeaveReview attaches a star rating to a completed appointment. Only the
// customer who sat the appointment can review it, once.
func (s *DefaultBookingService) LeaveReview(ctx context.Context, actor Actor, appointmentID string, rating int, content string) (*models.Review, error) {
	if s.Reviews == nil {
		return nil, fmt.Errorf("review store not configured")
	}
	if rating < 1 || rating > 5 || content == "" || len(content) > maxReviewContentLen {
		return nil, ErrInvalidReview
	}

	apt, err := s.GetSlot(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != models.StatusCompleted {
		return nil, ErrNotReviewable
	}
	if actor.Role != models.RoleAdmin && actor.ID != apt.CustomerID {
		return nil, ErrNotOccupant
	}

	review := &models.Review{
		AppointmentID: apt.ID,
		CustomerID:    apt.CustomerID,
		StylistID:     apt.StylistID,
		Rating:        rating,
		Content:       content,
	}
	if cerr := s.Reviews.Create(ctx, review); cerr != nil {
		if errors.Is(cerr, reviewRepo.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, cerr
	}
	return review, nil
}

// AppointmentReview returns the review on one appointment. Only participants
// of the appointment can see it.
func (s *DefaultBookingService) AppointmentReview(ctx context.Context, actor Actor, appointmentID string) (*models.Review, error) {
	apt, err := s.GetSlot(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && actor.ID != apt.CustomerID && actor.ID != apt.StylistID {
		return nil, ErrNotOccupant
	}
	return s.Reviews.GetByAppointment(ctx, appointmentID)
}

// StylistReviews lists a stylist's reviews, newest first, with the rounded
// average rating.
func (s *DefaultBookingService) StylistReviews(ctx context.Context, stylistID string) (*StylistReviewSummary, error) {
	reviews, err := s.Reviews.ListByStylist(ctx, stylistID)
	if err != nil {
		return nil, err
	}

	summary := &StylistReviewSummary{Reviews: reviews, TotalReviews: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		summary.AverageRating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}
	return summary, nil
}
