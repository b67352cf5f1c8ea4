package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Patient     string             `bson:"patient" json:"patient" binding:"required"`
	PatientName string             `bson:"patientName" json:"patientName"`
	Treatment   string             `bson:"treatment" json:"treatment" binding:"required"`
	Date        string             `bson:"date" json:"date" binding:"required"`
	Slot        string             `bson:"slot" json:"slot" binding:"required"`
}
