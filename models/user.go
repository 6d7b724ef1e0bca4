package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	Role       string             `json:"role" bson:"role"`
	Groups     []string           `json:"groups" bson:"groups"`
	IsAdmin    bool               `json:"isAdmin" bson:"isAdmin"`
	IsApproved bool               `json:"isApproved" bson:"isApproved"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt  primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// UserStats is the rollup served to the user-management widgets
type UserStats struct {
	TotalUsers    int64  `json:"totalUsers"`
	ApprovedUsers int64  `json:"approvedUsers"`
	PendingUsers  int64  `json:"pendingUsers"`
	TotalRoles    int64  `json:"totalRoles"`
	TotalGroups   int64  `json:"totalGroups"`
	RecentUsers   []User `json:"recentUsers"`
}
