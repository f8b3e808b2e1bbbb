package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
	Country string `json:"country" bson:"country" default:"US"`
}

type CustomerProfile struct {
	PhoneNumber     string               `json:"phone_number" bson:"phone_number"`
	Address         Address              `json:"address" bson:"address"`
	ServiceRequests []primitive.ObjectID `json:"service_requests" bson:"service_requests"`
	LoyaltyPoints   int                  `json:"loyalty_points" bson:"loyalty_points"`
	TotalSpent      float64              `json:"total_spent" bson:"total_spent"`
	MemberSince     time.Time            `json:"member_since" bson:"member_since"`
	LastServiceAt   *time.Time           `json:"last_service_at" bson:"last_service_at"`
}

func NewCustomerProfile() *CustomerProfile {
	return &CustomerProfile{
		ServiceRequests: []primitive.ObjectID{},
		MemberSince:     time.Now(),
	}
}
