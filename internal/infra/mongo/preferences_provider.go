package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tutorial-quiz-service/internal/domain"
)

// PreferencesProvider loads a user's display preferences from MongoDB.
// Preferences are deliberately never cached by the quiz layer; they change
// often and a fetch is one document read.
type PreferencesProvider struct {
	collection *mongo.Collection
}

func NewPreferencesProvider(db *mongo.Database) *PreferencesProvider {
	return &PreferencesProvider{collection: db.Collection("preferences")}
}

type preferencesDoc struct {
	UserID      string `bson:"user_id"`
	Theme       string `bson:"theme"`
	FontSize    string `bson:"font_size"`
	FontStyle   string `bson:"font_style"`
	LayoutWidth string `bson:"layout_width"`
}

// FetchPreferences returns the stored preferences for a user, or defaults when
// the user has no document yet. A missing document is not an error.
func (p *PreferencesProvider) FetchPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var doc preferencesDoc
	err := p.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	prefs := domain.UserPreferences{
		Theme:       domain.Theme(doc.Theme),
		FontSize:    domain.FontSize(doc.FontSize),
		FontStyle:   domain.FontStyle(doc.FontStyle),
		LayoutWidth: domain.LayoutWidth(doc.LayoutWidth),
	}
	return prefs.Normalize(), nil
}
