package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// CreateTicketTypeRequest represents the data needed to create a ticket type
type CreateTicketTypeRequest struct {
	EventID  int64   `json:"event_id"`
	TypeName string  `json:"type_name" binding:"required,max=100"`
	Price    float64 `json:"price" binding:"min=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

type ticketTypeService struct {
	typeRepo  repository.TicketTypeRepository
	eventRepo repository.EventRepository
	log       *logrus.Logger
}

// NewTicketTypeService creates a new TicketTypeService instance
func NewTicketTypeService(
	typeRepo repository.TicketTypeRepository,
	eventRepo repository.EventRepository,
	log *logrus.Logger,
) TicketTypeService {
	return &ticketTypeService{
		typeRepo:  typeRepo,
		eventRepo: eventRepo,
		log:       log,
	}
}

func (s *ticketTypeService) CreateTicketType(ctx context.Context, req *CreateTicketTypeRequest) (*entity.TicketType, error) {
	if _, err := s.eventRepo.GetByID(ctx, req.EventID); err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	tt := &entity.TicketType{
		EventID:  req.EventID,
		TypeName: req.TypeName,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	if err := s.typeRepo.Create(ctx, tt); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"type_id":  tt.ID,
		"event_id": tt.EventID,
		"name":     tt.TypeName,
		"quantity": tt.Quantity,
	}).Info("ticket type created")

	return tt, nil
}

func (s *ticketTypeService) GetEventTicketTypes(ctx context.Context, eventID int64) ([]*entity.TicketType, error) {
	types, err := s.typeRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket types: %w", err)
	}
	return types, nil
}

func (s *ticketTypeService) AllocateTicketType(ctx context.Context, typeID int64, quantity int) error {
	if err := s.typeRepo.AllocateQuantity(ctx, typeID, quantity); err != nil {
		return fmt.Errorf("failed to allocate ticket type: %w", err)
	}
	return nil
}

func (s *ticketTypeService) ReleaseTicketType(ctx context.Context, typeID int64, quantity int) error {
	if err := s.typeRepo.ReleaseQuantity(ctx, typeID, quantity); err != nil {
		return fmt.Errorf("failed to release ticket type: %w", err)
	}
	return nil
}
