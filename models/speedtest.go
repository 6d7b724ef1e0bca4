package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpeedTestResult holds the structure for the speedTests collection in mongo
type SpeedTestResult struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Download   float64            `json:"download" bson:"download"`
	Upload     float64            `json:"upload" bson:"upload"`
	Ping       float64            `json:"ping" bson:"ping"`
	Jitter     float64            `json:"jitter" bson:"jitter"`
	ServerName string             `json:"serverName" bson:"serverName"`
	ISP        string             `json:"isp" bson:"isp"`
	ExternalIP string             `json:"externalIp" bson:"externalIp"`
	TestedAt   primitive.DateTime `json:"testedAt" bson:"testedAt"`
}
