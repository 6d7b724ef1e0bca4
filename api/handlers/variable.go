package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
	"github.com/infinitelyweird/OpenClaw-Dashboard/widget"
)

// Variable exported for testing purposes
type Variable struct {
	DB       databases.WidgetVariableDatabase
	IDB      databases.WidgetInstanceDatabase
	UDB      databases.UserDatabase
	Resolver *widget.Resolver
}

// variableSource adapts the variable collection to the resolver's interface
type variableSource struct {
	db databases.WidgetVariableDatabase
}

func newVariableSource(db databases.WidgetVariableDatabase) widget.VariableSource {
	return variableSource{db: db}
}

func (s variableSource) Variables(ctx context.Context) ([]models.WidgetVariable, error) {
	return s.db.Find(ctx, bson.M{})
}

// VariablesHandler returns all widget variables with derived reference counts
// and creator names. Secret-typed variable values are masked.
func (v Variable) VariablesHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := v.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get widget variables", http.StatusNotFound, w, err)
		return
	}

	summaries := make([]models.WidgetVariableSummary, 0, len(dbResp))
	for _, variable := range dbResp {
		count, err := v.IDB.CountDocuments(r.Context(), bson.M{
			"configJson": bson.M{"$regex": regexQuoteToken(variable.Name)},
		})
		if err != nil {
			zap.S().Warnw("failed to count variable references", "variable", variable.Name, "error", err)
		}
		if variable.Type == "secret" {
			variable.Value = "••••••••"
		}
		summaries = append(summaries, models.WidgetVariableSummary{
			WidgetVariable: variable,
			CreatedByName:  v.creatorName(r.Context(), variable.CreatedBy),
			ReferenceCount: count,
		})
	}

	b, err := json.Marshal(summaries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateVariableHandler creates a new widget variable; names are unique
func (v Variable) CreateVariableHandler(w http.ResponseWriter, r *http.Request) {
	var newVariable models.WidgetVariable
	if err := json.NewDecoder(r.Body).Decode(&newVariable); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newVariable.Name == "" || newVariable.DisplayName == "" || newVariable.Value == "" {
		config.ErrorStatus("name, displayName and value are required", http.StatusBadRequest, w, errMissingField("name/displayName/value"))
		return
	}

	if _, err := v.DB.FindOne(r.Context(), bson.M{"name": newVariable.Name}); err == nil {
		config.ErrorStatus("variable name already exists", http.StatusConflict, w, fmt.Errorf("duplicate variable name %q", newVariable.Name))
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	newVariable.ID = primitive.NewObjectID()
	newVariable.CreatedBy = userID
	newVariable.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	newVariable.UpdatedAt = newVariable.CreatedAt

	_, err = v.DB.InsertOne(r.Context(), newVariable)
	if err != nil {
		config.ErrorStatus("failed to create widget variable", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newVariable)
}

// UpdateVariableHandler updates a widget variable
func (v Variable) UpdateVariableHandler(w http.ResponseWriter, r *http.Request) {
	vID, err := primitive.ObjectIDFromHex(mux.Vars(r)["variable_id"])
	if err != nil {
		config.ErrorStatus("invalid variable ID", http.StatusBadRequest, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{}
	for _, key := range []string{"displayName", "value", "type", "category", "description"} {
		if value, ok := updatedDetails[key]; ok {
			update[key] = value
		}
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err = v.DB.UpdateOne(r.Context(), bson.M{"_id": vID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update widget variable", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "widget variable updated successfully"}`))
}

// DeleteVariableHandler deletes a widget variable. Configs referencing it keep
// their {{name}} tokens, which from then on render verbatim.
func (v Variable) DeleteVariableHandler(w http.ResponseWriter, r *http.Request) {
	vID, err := primitive.ObjectIDFromHex(mux.Vars(r)["variable_id"])
	if err != nil {
		config.ErrorStatus("invalid variable ID", http.StatusBadRequest, w, err)
		return
	}

	if _, err := v.DB.DeleteOne(r.Context(), bson.M{"_id": vID}); err != nil {
		config.ErrorStatus("failed to delete widget variable", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "widget variable deleted successfully"}`))
}

// ResolveHandler substitutes {{variable}} placeholders in an arbitrary text
func (v Variable) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	resolved := v.Resolver.ResolveText(r.Context(), req.Text)

	b, err := json.Marshal(models.ResolveResponse{Resolved: resolved})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (v Variable) creatorName(ctx context.Context, userID primitive.ObjectID) string {
	user, err := v.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return ""
	}
	return user.Username
}

// regexQuoteToken builds a literal-match regex for a {{name}} occurrence
func regexQuoteToken(name string) string {
	quoted := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `$`, `\$`,
	).Replace(name)
	return `\{\{` + quoted + `\}\}`
}
