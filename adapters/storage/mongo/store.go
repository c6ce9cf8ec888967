package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/utils/log"
)

const usersCollection = "users"

// Store persists user documents in MongoDB, one document per user keyed by
// the chat identity. The layout matches the historical collection, so
// documents written by earlier deployments load unchanged.
type Store struct {
	users *mongo.Collection
}

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	log.WithCtx(ctx).Info("connected to mongodb database: " + database)

	return &Store{
		users: client.Database(database).Collection(usersCollection),
	}, nil
}

type userDoc struct {
	ID          int64        `bson:"_id"`
	Username    string       `bson:"username"`
	Description string       `bson:"userDescription,omitempty"`
	Characters  []personaDoc `bson:"characters"`
	ActiveIndex int          `bson:"currentCharacterIndex"`
}

type personaDoc struct {
	Name     string    `bson:"name"`
	Prompt   string    `bson:"prompt"`
	Greeting string    `bson:"greeting"`
	Chat     []turnDoc `bson:"chat"`
}

type turnDoc struct {
	Role    string `bson:"role"`
	Content string `bson:"content"`
}

func (s *Store) LoadUser(ctx context.Context, userID int64) (*domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return fromDoc(doc), nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	_, err := s.users.ReplaceOne(
		ctx,
		bson.M{"_id": user.ID},
		toDoc(user),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving user %d: %w", user.ID, err)
	}
	return nil
}

func (s *Store) AppendTurn(ctx context.Context, userID int64, personaIndex int, t domain.Turn) error {
	field := fmt.Sprintf("characters.%d.chat", personaIndex)
	res, err := s.users.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{field: turnDoc{Role: t.Speaker.WireRole(), Content: t.Content}}},
	)
	if err != nil {
		return fmt.Errorf("appending turn for user %d: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func toDoc(user *domain.User) userDoc {
	characters := make([]personaDoc, len(user.Personas))
	for i, p := range user.Personas {
		chat := make([]turnDoc, len(p.History))
		for j, t := range p.History {
			chat[j] = turnDoc{Role: t.Speaker.WireRole(), Content: t.Content}
		}
		characters[i] = personaDoc{
			Name:     p.Name,
			Prompt:   p.Prompt,
			Greeting: p.Greeting,
			Chat:     chat,
		}
	}
	return userDoc{
		ID:          user.ID,
		Username:    user.DisplayName,
		Description: user.Description,
		Characters:  characters,
		ActiveIndex: user.ActivePersona,
	}
}

func fromDoc(doc userDoc) *domain.User {
	user := &domain.User{
		ID:          doc.ID,
		DisplayName: doc.Username,
		Description: doc.Description,
		Personas:    make([]*domain.Persona, 0, len(doc.Characters)),
	}
	for _, c := range doc.Characters {
		history := make([]domain.Turn, len(c.Chat))
		for j, t := range c.Chat {
			history[j] = domain.Turn{Speaker: domain.ParseSpeaker(t.Role), Content: t.Content}
		}
		user.Personas = append(user.Personas, &domain.Persona{
			Name:     c.Name,
			Prompt:   c.Prompt,
			Greeting: c.Greeting,
			History:  history,
		})
	}

	// A user always has at least one persona and a valid active index,
	// whatever the document says.
	if len(user.Personas) == 0 {
		user.Personas = []*domain.Persona{domain.NewDefaultPersona()}
	}
	if user.DisplayName == "" {
		user.DisplayName = domain.DefaultDisplayName
	}
	if doc.ActiveIndex >= 0 && doc.ActiveIndex < len(user.Personas) {
		user.ActivePersona = doc.ActiveIndex
	}
	return user
}
