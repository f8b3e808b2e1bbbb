package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Certification struct {
	Name              string     `json:"name" bson:"name"`
	IssuingBody       string     `json:"issuing_body" bson:"issuing_body"`
	CertificateNumber string     `json:"certificate_number" bson:"certificate_number"`
	DocumentURL       string     `json:"document_url" bson:"document_url"`
	IssueDate         *time.Time `json:"issue_date" bson:"issue_date"`
	ExpiryDate        *time.Time `json:"expiry_date" bson:"expiry_date"`
}

type MechanicPricing struct {
	HourlyRate    float64 `json:"hourly_rate" bson:"hourly_rate"`
	MinimumCharge float64 `json:"minimum_charge" bson:"minimum_charge"`
	TravelFee     float64 `json:"travel_fee" bson:"travel_fee"`
}

type MechanicAvailability struct {
	IsAvailable bool   `json:"is_available" bson:"is_available" default:"true"`
	Timezone    string `json:"timezone" bson:"timezone" default:"UTC"`
}

type MechanicPerformance struct {
	JobsCompleted  int64   `json:"jobs_completed" bson:"jobs_completed"`
	AverageJobTime float64 `json:"average_job_time" bson:"average_job_time"`
	OnTimeRate     float64 `json:"on_time_rate" bson:"on_time_rate" default:"100"`
}

type MechanicProfile struct {
	PhoneNumber     string               `json:"phone_number" bson:"phone_number"`
	Specializations []string             `json:"specializations" bson:"specializations"`
	Experience      int                  `json:"experience" bson:"experience"`
	Rating          float64              `json:"rating" bson:"rating"`
	TotalRatings    int64                `json:"total_ratings" bson:"total_ratings"`
	Pricing         MechanicPricing      `json:"pricing" bson:"pricing"`
	Availability    MechanicAvailability `json:"availability" bson:"availability"`
	Certifications  []Certification      `json:"certifications" bson:"certifications"`
	Performance     MechanicPerformance  `json:"performance" bson:"performance"`
	ServiceRequests []primitive.ObjectID `json:"service_requests" bson:"service_requests"`
}

func NewMechanicProfile() *MechanicProfile {
	return &MechanicProfile{
		Specializations: []string{},
		Certifications:  []Certification{},
		ServiceRequests: []primitive.ObjectID{},
		Availability:    MechanicAvailability{IsAvailable: true, Timezone: "UTC"},
		Performance:     MechanicPerformance{OnTimeRate: 100},
	}
}
