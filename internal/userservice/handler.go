package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, logger *slog.Logger) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		logger: logger,
	}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser registers a new user account and publishes a user.created event.
// The event is best effort: the account is already durable when it is
// published, so a broker failure is logged and not surfaced to the caller.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, req.Username)
	validateName(v, req.Name)
	validateEmail(v, req.Email)
	validatePassword(v, req.Password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	}

	err := u.Password.set(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyUsers())

	event := UserCreatedEvent{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		s.logger.Error("could not publish user.created event", slog.Int("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// GetUsers returns every user with their owned blogs resolved.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	if cached, ok := s.c.Get(common.CacheKeyUsers()); ok {
		return cached.([]User), nil
	}

	users, err := s.m.getUsers(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUsers(), users)

	return users, nil
}

// GetUserByID returns a single user with their owned blogs resolved.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserById(ctx, id)
}
