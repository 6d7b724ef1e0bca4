package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a new user account pending approval
func (u User) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		config.ErrorStatus("username and password are required", http.StatusBadRequest, w, errMissingField("username/password"))
		return
	}

	if _, err := u.DB.FindOne(r.Context(), bson.M{"username": req.Username}); err == nil {
		config.ErrorStatus("username already exists", http.StatusConflict, w, fmt.Errorf("duplicate username %q", req.Username))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	newUser := models.User{
		ID:         primitive.NewObjectID(),
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		Role:       "viewer",
		IsApproved: false,
		CreatedAt:  primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt:  primitive.NewDateTimeFromTime(time.Now()),
	}

	_, err = u.DB.InsertOne(r.Context(), newUser)
	if err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "user created, awaiting approval",
		"id":      newUser.ID.Hex(),
	})
}

// UserHandler returns a user by ID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus("invalid user ID", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := u.DB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApproveUserHandler marks a pending user as approved, admin only
func (u User) ApproveUserHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}
	caller, err := u.DB.FindOne(r.Context(), bson.M{"_id": callerID})
	if err != nil || !caller.IsAdmin {
		config.ErrorStatus("admin access required", http.StatusForbidden, w, fmt.Errorf("caller is not an admin"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus("invalid user ID", http.StatusBadRequest, w, err)
		return
	}

	err = u.DB.UpdateOne(r.Context(), bson.M{"_id": uID}, bson.M{"$set": bson.M{
		"isApproved": true,
		"updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to approve user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "user approved successfully"}`))
}
