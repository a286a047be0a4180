package assistant

import (
	"context"
	"fmt"
	"strings"

	conversationRepo "chairhop/database/repository/conversation"
	"chairhop/models"
	"chairhop/services/booking"
	"chairhop/services/matching"
	"chairhop/utils"

	"go.uber.org/zap"
)

// AssistantError is a typed conversation protocol failure.
type AssistantError struct {
	Code    string
	Message string
}

func (e *AssistantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrSelectionNotInShortlist: the customer tried to lock a slot the
	// assistant never offered in this conversation.
	ErrSelectionNotInShortlist = &AssistantError{Code: "selection_not_in_shortlist", Message: "that option was not part of the suggestions"}
	// ErrNotConversationOwner: the conversation belongs to another customer.
	ErrNotConversationOwner = &AssistantError{Code: "not_conversation_owner", Message: "this conversation does not belong to you"}
	// ErrNothingLocked: book was requested with no slot locked.
	ErrNothingLocked = &AssistantError{Code: "nothing_locked", Message: "pick one of the suggested appointments first"}
)

const systemPrompt = `You are a friendly salon booking assistant. You help customers
find and book chair-time appointments with stylists. Once the customer has
picked a specific appointment, talk only about that appointment until they
ask to see other options. Keep replies short and warm.`

// AssistantService runs the booking conversation.
type AssistantService interface {
	ProcessMessage(ctx context.Context, actor booking.Actor, req models.AssistantRequest) (*models.AssistantResponse, error)
	ListConversations(ctx context.Context, customerID string) ([]models.Conversation, error)
	ListTurns(ctx context.Context, actor booking.Actor, conversationID string) ([]models.ConversationMessage, error)
}

// DefaultAssistantService is the production implementation.
type DefaultAssistantService struct {
	Conversations conversationRepo.ConversationRepository
	CtxStore      ContextStore
	Matcher       matching.Matcher
	Booking       booking.BookingService
	Replies       ReplyGenerator // optional, canned replies when nil or failing
}

func (s *DefaultAssistantService) ListConversations(ctx context.Context, customerID string) ([]models.Conversation, error) {
	return s.Conversations.ListByCustomer(ctx, customerID)
}

func (s *DefaultAssistantService) ListTurns(ctx context.Context, actor booking.Actor, conversationID string) ([]models.ConversationMessage, error) {
	conv, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && conv.CustomerID != actor.ID {
		return nil, ErrNotConversationOwner
	}
	return s.Conversations.ListTurns(ctx, conversationID)
}

// ProcessMessage runs one turn of the conversation protocol. Free text while
// unlocked triggers a match; a select locks the chosen slot and suppresses
// further matching; book acts on the locked slot; new_search unlocks.
func (s *DefaultAssistantService) ProcessMessage(ctx context.Context, actor booking.Actor, req models.AssistantRequest) (*models.AssistantResponse, error) {
	conv, err := s.resolveConversation(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	if req.Text != "" || req.PhotoURL != "" {
		turn := &models.ConversationMessage{
			ConversationID: conv.ID,
			Role:           "customer",
			Content:        req.Text,
			PhotoURL:       req.PhotoURL,
		}
		if aerr := s.Conversations.AppendTurn(ctx, turn); aerr != nil {
			return nil, aerr
		}
	}

	state, err := s.CtxStore.Get(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	// A conversation bound to an appointment loads in locked mode, so the
	// assistant keeps talking about the booked slot until the customer
	// explicitly asks to search again. This also survives state expiry.
	if conv.AppointmentID != "" && !state.Locked() && !state.Unbound {
		state.LockedSlotID = conv.AppointmentID
	}

	var resp *models.AssistantResponse
	switch req.Action {
	case models.ActionSelect:
		resp, err = s.handleSelect(ctx, conv, state, req)
	case models.ActionBook:
		resp, err = s.handleBook(ctx, actor, conv, state, req)
	case models.ActionNewSearch:
		state.LockedSlotID = ""
		state.Unbound = true
		resp, err = s.handleSearch(ctx, conv, state, req)
	default:
		if state.Locked() {
			resp, err = s.handleLockedChat(ctx, conv, state, req)
		} else {
			resp, err = s.handleSearch(ctx, conv, state, req)
		}
	}
	if err != nil {
		return nil, err
	}

	if serr := s.CtxStore.Set(ctx, conv.ID, state); serr != nil {
		return nil, serr
	}
	if resp.Reply != "" {
		turn := &models.ConversationMessage{
			ConversationID: conv.ID,
			Role:           "assistant",
			Content:        resp.Reply,
		}
		if aerr := s.Conversations.AppendTurn(ctx, turn); aerr != nil {
			utils.GetLogger().Warn("failed to persist assistant turn",
				zap.String("conversationId", conv.ID),
				zap.Error(aerr))
		}
	}
	resp.ConversationID = conv.ID
	return resp, nil
}

func (s *DefaultAssistantService) resolveConversation(ctx context.Context, actor booking.Actor, req models.AssistantRequest) (*models.Conversation, error) {
	if req.ConversationID == "" {
		conv := &models.Conversation{
			CustomerID: actor.ID,
			Title:      titleFromText(req.Text),
		}
		if err := s.Conversations.Create(ctx, conv); err != nil {
			return nil, err
		}
		return conv, nil
	}

	conv, err := s.Conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && conv.CustomerID != actor.ID {
		return nil, ErrNotConversationOwner
	}
	return conv, nil
}

func (s *DefaultAssistantService) handleSearch(ctx context.Context, conv *models.Conversation, state *ConversationState, req models.AssistantRequest) (*models.AssistantResponse, error) {
	shortlist, err := s.Matcher.Match(ctx, req.Text, matching.DefaultShortlistSize)
	if err != nil {
		return nil, err
	}

	state.LastShortlist = state.LastShortlist[:0]
	for _, apt := range shortlist.Slots {
		state.LastShortlist = append(state.LastShortlist, apt.ID)
	}
	state.LastDegraded = shortlist.Degraded

	reply := s.generateReply(ctx, conv, req.Text, searchFallbackReply(shortlist))
	return &models.AssistantResponse{
		Reply:     reply,
		Shortlist: shortlist.Slots,
		Degraded:  shortlist.Degraded,
	}, nil
}

func (s *DefaultAssistantService) handleLockedChat(ctx context.Context, conv *models.Conversation, state *ConversationState, req models.AssistantRequest) (*models.AssistantResponse, error) {
	fallback := "Happy to answer anything about the appointment you picked. Say \"new search\" if you'd like to see other options."
	reply := s.generateReply(ctx, conv, req.Text, fallback)
	return &models.AssistantResponse{
		Reply:        reply,
		LockedSlotID: state.LockedSlotID,
	}, nil
}

func (s *DefaultAssistantService) handleSelect(ctx context.Context, conv *models.Conversation, state *ConversationState, req models.AssistantRequest) (*models.AssistantResponse, error) {
	if !contains(state.LastShortlist, req.SlotID) {
		return nil, ErrSelectionNotInShortlist
	}

	apt, err := s.Booking.GetSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	if !apt.Open() {
		// Taken since the shortlist was produced; drop it and re-search.
		state.LastShortlist = remove(state.LastShortlist, req.SlotID)
		return s.handleSearch(ctx, conv, state, req)
	}

	state.LockedSlotID = apt.ID
	menu := s.Booking.RelevantAddOns(apt)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Great choice! %s at %s on %s.",
		apt.StylistName, apt.Location, apt.Time.Format("Mon Jan 2 at 15:04"))
	if len(menu) > 0 {
		fmt.Fprintf(&sb, " Add-ons available: %s.", strings.Join(menu, ", "))
	}
	sb.WriteString(" Ready to book?")

	return &models.AssistantResponse{
		Reply:        sb.String(),
		LockedSlotID: apt.ID,
	}, nil
}

func (s *DefaultAssistantService) handleBook(ctx context.Context, actor booking.Actor, conv *models.Conversation, state *ConversationState, req models.AssistantRequest) (*models.AssistantResponse, error) {
	if !state.Locked() {
		return nil, ErrNothingLocked
	}
	if conv.AppointmentID != "" && conv.AppointmentID == state.LockedSlotID {
		return &models.AssistantResponse{
			Reply:        "You're already booked for this one. Say \"new search\" if you'd like to look at other appointments.",
			LockedSlotID: state.LockedSlotID,
			Booked:       true,
		}, nil
	}

	apt, err := s.Booking.Book(ctx, actor, state.LockedSlotID, booking.BookRequest{
		SelectedService: req.SelectedService,
		AddOns:          req.AddOns,
	})
	if err != nil {
		if booking.IsCode(err, "already_occupied") || booking.IsCode(err, "not_available") {
			// The locked slot is gone; unlock and offer alternatives.
			state.LockedSlotID = ""
			resp, serr := s.handleSearch(ctx, conv, state, req)
			if serr != nil {
				return nil, serr
			}
			resp.Reply = "Sorry, that chair was just taken. Here are some other options:"
			return resp, nil
		}
		return nil, err
	}

	if uerr := s.Conversations.SetAppointment(ctx, conv.ID, apt.ID); uerr != nil {
		utils.GetLogger().Warn("failed to link conversation to appointment",
			zap.String("conversationId", conv.ID),
			zap.Error(uerr))
	}
	// The conversation stays locked to the booked slot; follow-up turns keep
	// discussing it instead of offering alternatives.
	state.LastShortlist = nil
	state.Unbound = false

	return &models.AssistantResponse{
		Reply:        fmt.Sprintf("You're booked with %s on %s. See you there!", apt.StylistName, apt.Time.Format("Mon Jan 2 at 15:04")),
		LockedSlotID: apt.ID,
		Booked:       true,
	}, nil
}

func (s *DefaultAssistantService) generateReply(ctx context.Context, conv *models.Conversation, userText, fallback string) string {
	if s.Replies == nil {
		return fallback
	}

	var history []string
	if turns, err := s.Conversations.ListTurns(ctx, conv.ID); err == nil {
		for _, t := range turns {
			history = append(history, fmt.Sprintf("%s: %s", t.Role, t.Content))
		}
	}

	reply, err := s.Replies.Generate(ctx, systemPrompt, history, userText)
	if err != nil || strings.TrimSpace(reply) == "" {
		utils.GetLogger().Warn("reply generation failed, using canned reply",
			zap.String("conversationId", conv.ID),
			zap.Error(err))
		return fallback
	}
	return reply
}

func searchFallbackReply(shortlist *matching.Shortlist) string {
	if len(shortlist.Slots) == 0 {
		return "I couldn't find any open appointments right now. Try again a bit later?"
	}
	if shortlist.Degraded {
		return "Here are the latest open appointments:"
	}
	return "Here's what I found for you:"
}

func titleFromText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "New conversation"
	}
	if len(text) > 60 {
		return text[:60]
	}
	return text
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
