package models

import "time"

// Application is a stored clan application.
type Application struct {
	ID                    string     `bson:"_id" json:"id"`
	UserID                string     `bson:"user_id" json:"user_id"`
	Applicant             string     `bson:"applicant,omitempty" json:"applicant,omitempty"`
	Type                  string     `bson:"type" json:"type"`
	Interest              string     `bson:"interest" json:"interest"`
	About                 string     `bson:"about,omitempty" json:"about,omitempty"`
	InterviewAvailability *time.Time `bson:"interview_availability,omitempty" json:"interview_availability,omitempty"`
	CreatedAt             time.Time  `bson:"created_at" json:"created_at"`
}

// ApplicationRequest is the submission body.
type ApplicationRequest struct {
	Type                  string     `json:"type"`
	Interest              string     `json:"interest"`
	About                 string     `json:"about"`
	InterviewAvailability *time.Time `json:"interviewAvailability"`
}
