package services

import (
	"fmt"
	"lecturebot/internal/models"
	"lecturebot/internal/structures"
)

type AuthorizerInterface interface {
	IsAdmin(userID int64) bool
	Authorize(userID int64) error
}

// Authorizer checks callers against the static admin allow-list.
type Authorizer struct {
	admins map[int64]struct{}
}

func NewAuthorizer(conf *structures.Config) AuthorizerInterface {
	admins := make(map[int64]struct{}, len(conf.Bot.AdminIDs))
	for _, id := range conf.Bot.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Authorizer{admins: admins}
}

func (a *Authorizer) IsAdmin(userID int64) bool {
	_, ok := a.admins[userID]
	return ok
}

func (a *Authorizer) Authorize(userID int64) error {
	if !a.IsAdmin(userID) {
		return fmt.Errorf("user %d: %w", userID, models.ErrUnauthorized)
	}
	return nil
}
