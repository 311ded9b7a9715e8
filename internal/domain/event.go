package domain

import (
	"time"

	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionClosed  Action = "closed"
	ActionDeleted Action = "deleted"
)

type ObjectKind string

const (
	KindRun    ObjectKind = "run"
	KindCoffee ObjectKind = "coffee"
	KindCafe   ObjectKind = "cafe"
	KindPrice  ObjectKind = "price"
)

// ObjectRef points at the entity an event is about. It is one of RunRef,
// CoffeeRef, CafeRef or PriceRef. The entity may no longer exist.
type ObjectRef interface {
	Kind() ObjectKind
	ObjectID() uint
	objectRef()
}

type RunRef struct{ ID uint }

type CoffeeRef struct{ ID uint }

type CafeRef struct{ ID uint }

type PriceRef struct{ ID uint }

func (r RunRef) Kind() ObjectKind    { return KindRun }
func (r CoffeeRef) Kind() ObjectKind { return KindCoffee }
func (r CafeRef) Kind() ObjectKind   { return KindCafe }
func (r PriceRef) Kind() ObjectKind  { return KindPrice }

func (r RunRef) ObjectID() uint    { return r.ID }
func (r CoffeeRef) ObjectID() uint { return r.ID }
func (r CafeRef) ObjectID() uint   { return r.ID }
func (r PriceRef) ObjectID() uint  { return r.ID }

func (RunRef) objectRef()    {}
func (CoffeeRef) objectRef() {}
func (CafeRef) objectRef()   {}
func (PriceRef) objectRef()  {}

// NewObjectRef rebuilds a reference from its stored kind and id. Unknown
// kinds give nil.
func NewObjectRef(kind string, id uint) ObjectRef {
	switch ObjectKind(kind) {
	case KindRun:
		return RunRef{ID: id}
	case KindCoffee:
		return CoffeeRef{ID: id}
	case KindCafe:
		return CafeRef{ID: id}
	case KindPrice:
		return PriceRef{ID: id}
	default:
		return nil
	}
}

// Event is an append-only audit record of something a user did.
type Event struct {
	ID     uint
	UserID uint
	User   User
	Action Action
	Object ObjectRef
	Time   time.Time
}

func NewEvent(userID uint, action Action, object ObjectRef, now time.Time) Event {
	return Event{
		UserID: userID,
		Action: action,
		Object: object,
		Time:   now,
	}
}

func (e Event) ReadTime(f *timefmt.Formatter) string {
	return f.Readable(e.Time)
}

// ObjType is the stored kind of the referenced object, empty when there is
// none.
func (e Event) ObjType() string {
	if e.Object == nil {
		return ""
	}
	return string(e.Object.Kind())
}

func (e Event) ObjID() uint {
	if e.Object == nil {
		return 0
	}
	return e.Object.ObjectID()
}

type EventJSON struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Person      string `json:"person"`
	Action      Action `json:"action"`
	ObjType     string `json:"objtype"`
	ObjID       uint   `json:"objid"`
	Time        string `json:"time"`
	ReadTime    string `json:"readtime"`
	Description string `json:"description"`
}

func (e Event) ToJSON(f *timefmt.Formatter, description string) EventJSON {
	return EventJSON{
		ID:          e.ID,
		UserID:      e.UserID,
		Person:      e.User.Name,
		Action:      e.Action,
		ObjType:     e.ObjType(),
		ObjID:       e.ObjID(),
		Time:        f.JSON(e.Time),
		ReadTime:    e.ReadTime(f),
		Description: description,
	}
}
