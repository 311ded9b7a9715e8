package repository

import (
	"context"
	"fmt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindRecent(ctx context.Context, limit int) ([]dao.Event, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		UserID:  event.UserID,
		Action:  string(event.Action),
		ObjType: event.ObjType(),
		ObjID:   event.ObjID(),
		Time:    event.Time,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventToDomain(created), nil
}

func (r *EventRepository) FindRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecent -> %w", err)
	}

	return eventsToDomain(found), nil
}

func (r *EventRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return eventsToDomain(found), nil
}

func eventToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:     e.ID,
		UserID: e.UserID,
		User:   userToDomain(e.User),
		Action: domain.Action(e.Action),
		Object: domain.NewObjectRef(e.ObjType, e.ObjID),
		Time:   e.Time,
	}
}

func eventsToDomain(found []dao.Event) []domain.Event {
	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = eventToDomain(e)
	}

	return events
}
