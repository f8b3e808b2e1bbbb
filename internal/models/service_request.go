package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string
type ServiceType string
type RequestPriority string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAccepted   RequestStatus = "accepted"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusQuestion   RequestStatus = "question"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"

	ServiceTypeRepair      ServiceType = "repair"
	ServiceTypeMaintenance ServiceType = "maintenance"
	ServiceTypeInspection  ServiceType = "inspection"
	ServiceTypeDiagnostic  ServiceType = "diagnostic"
	ServiceTypeEmergency   ServiceType = "emergency"

	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// allowedTransitions is the service-request state machine. Completed,
// rejected, and cancelled are terminal.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:    {RequestStatusAccepted, RequestStatusRejected},
	RequestStatusAccepted:   {RequestStatusQuestion, RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusQuestion:   {RequestStatusAccepted, RequestStatusRejected},
	RequestStatusInProgress: {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:  {},
	RequestStatusRejected:   {},
	RequestStatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal status transition.
// A same-status write is a no-op and always allowed.
func CanTransition(from, to RequestStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func ValidRequestStatus(status string) bool {
	_, ok := allowedTransitions[RequestStatus(status)]
	return ok
}

func ValidServiceType(serviceType string) bool {
	switch ServiceType(serviceType) {
	case ServiceTypeRepair, ServiceTypeMaintenance, ServiceTypeInspection,
		ServiceTypeDiagnostic, ServiceTypeEmergency:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch RequestPriority(priority) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// RequestNote is an immutable audit entry on a service request.
type RequestNote struct {
	Text      string             `json:"text" bson:"text"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type ServiceRequest struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerID  primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	VehicleID   primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id,omitempty"`
	MechanicID  primitive.ObjectID `json:"mechanic_id,omitempty" bson:"mechanic_id,omitempty"`
	Description string             `json:"description" bson:"description" validate:"required,max=1000"`
	Question    string             `json:"question,omitempty" bson:"question,omitempty"`
	ServiceType ServiceType        `json:"service_type" bson:"service_type" validate:"required"`
	Priority    RequestPriority    `json:"priority" bson:"priority" default:"medium"`
	Status      RequestStatus      `json:"status" bson:"status" default:"pending"`
	Notes       []RequestNote      `json:"notes" bson:"notes"`
	CompletedAt *time.Time         `json:"completed_at" bson:"completed_at"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// AddNote appends an audit note. Notes are append-only; nothing removes them.
func (s *ServiceRequest) AddNote(text string, authorID primitive.ObjectID) {
	s.Notes = append(s.Notes, RequestNote{
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	})
}

// ApplyStatus transitions the request to a new status, appending the audit
// note and stamping the completion time. Callers must have already checked
// CanTransition.
func (s *ServiceRequest) ApplyStatus(to RequestStatus, authorID primitive.ObjectID, now time.Time) error {
	from := s.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid status transition: %s -> %s", from, to)
	}
	if from == to {
		return nil
	}

	s.Status = to
	s.AddNote(fmt.Sprintf("Status changed from %s to %s", from, to), authorID)

	if to == RequestStatusCompleted && s.CompletedAt == nil {
		t := now
		s.CompletedAt = &t
	}
	return nil
}

// ServiceRequestDetail is a request populated with its cross-references for
// immediate display. Principal records are sanitized before embedding.
type ServiceRequestDetail struct {
	ServiceRequest `bson:",inline"`
	Customer       *User    `json:"customer,omitempty" bson:"-"`
	Mechanic       *User    `json:"mechanic,omitempty" bson:"-"`
	Vehicle        *Vehicle `json:"vehicle,omitempty" bson:"-"`
}
