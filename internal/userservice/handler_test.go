package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/bloglist/internal/common"
)

type stubProducer struct {
	published [][]byte
	err       error
}

func (p *stubProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *stubProducer) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	producer := &stubProducer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Cleanup(func() {
		cache.Flush()
	})

	return NewUserService(db, producer, cache, logger), db, producer
}

func userCount(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	assert.NoError(t, err)

	return count
}

func TestCreateUser(t *testing.T) {
	s, db, producer := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		req         *CreateUserRequest
		expectedErr error
	}{
		{
			name: "valid user",
			req:  &CreateUserRequest{Username: "mluukkai", Name: "Matti Luukkainen", Password: "salainen"},
		},
		{
			name: "three character credentials succeed",
			req:  &CreateUserRequest{Username: "abc", Password: "abc"},
		},
		{
			name:        "two character username fails",
			req:         &CreateUserRequest{Username: "ab", Password: "salainen"},
			expectedErr: common.ValidationError{Errors: map[string]string{"username": "must be between 3 and 25 characters long"}},
		},
		{
			name:        "two character password fails",
			req:         &CreateUserRequest{Username: "validuser", Password: "ab"},
			expectedErr: common.ValidationError{Errors: map[string]string{"password": "must be between 3 and 72 characters long"}},
		},
		{
			name:        "duplicate username",
			req:         &CreateUserRequest{Username: "mluukkai", Password: "salainen"},
			expectedErr: ErrDuplicateUsername,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			countBefore := userCount(t, db)

			user, err := s.CreateUser(ctx, tc.req)

			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				assert.Nil(t, user)
				assert.Equal(t, countBefore, userCount(t, db))
				return
			}

			assert.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, tc.req.Username, user.Username)
			assert.Empty(t, user.Blogs)
			assert.Equal(t, countBefore+1, userCount(t, db))
		})
	}

	// one event per successful registration
	assert.Len(t, producer.published, 2)
}

func TestCreateUserPublishFailureDoesNotFailRegistration(t *testing.T) {
	s, db, producer := setupTestEnvironment(t)
	producer.err = assert.AnError
	ctx := context.Background()

	user, err := s.CreateUser(ctx, &CreateUserRequest{Username: "mluukkai", Password: "salainen"})
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, 1, userCount(t, db))
}

func TestGetUsers(t *testing.T) {
	s, db, _ := setupTestEnvironment(t)
	ctx := context.Background()

	users, err := s.GetUsers(ctx)
	assert.NoError(t, err)
	assert.Empty(t, users)

	created, err := s.CreateUser(ctx, &CreateUserRequest{Username: "mluukkai", Password: "salainen"})
	assert.NoError(t, err)

	// attach a blog the way the blog creation protocol does
	var blogID int
	err = db.QueryRow(`INSERT INTO blogs (title, url, likes, user_id) VALUES ('Owned', 'http://www.example.com/owned', 4, $1) RETURNING id`, created.ID).Scan(&blogID)
	assert.NoError(t, err)
	_, err = db.Exec(`UPDATE users SET blog_ids = array_append(blog_ids, $1) WHERE id = $2`, blogID, created.ID)
	assert.NoError(t, err)

	users, err = s.GetUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Len(t, users[0].Blogs, 1)
	assert.Equal(t, BlogSummary{ID: blogID, Title: "Owned", URL: "http://www.example.com/owned", Likes: 4}, users[0].Blogs[0])
}

func TestGetUserByID(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, &CreateUserRequest{Username: "mluukkai", Name: "Matti Luukkainen", Password: "salainen"})
	assert.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		user, err := s.GetUserByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "mluukkai", user.Username)
		assert.Equal(t, "Matti Luukkainen", user.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetUserByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestCreateUserPublishesEvent drives the registration event through a real
// broker rather than the producer stub.
func TestCreateUserPublishesEvent(t *testing.T) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	broker, err := common.NewMessageBroker(common.TestRabbitMQ(t))
	assert.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	err = common.SetupUserExchange(broker)
	assert.NoError(t, err)

	s := NewUserService(db, broker, cache, logger)

	msgs, err := broker.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	assert.NoError(t, err)

	created, err := s.CreateUser(context.Background(), &CreateUserRequest{
		Username: "brokeruser",
		Email:    "brokeruser@example.com",
		Password: "salainen",
	})
	assert.NoError(t, err)

	select {
	case msg := <-msgs:
		var event UserCreatedEvent
		assert.NoError(t, json.Unmarshal(msg.Body, &event))
		assert.Equal(t, created.ID, event.ID)
		assert.Equal(t, "brokeruser", event.Username)
		assert.Equal(t, "brokeruser@example.com", event.Email)
		msg.Ack(false)
	case <-time.After(10 * time.Second):
		t.Fatal("no user.created event received")
	}
}
