package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yshchur/contacts-api/internal/models"
	"github.com/yshchur/contacts-api/internal/repositories/contacts"
	"github.com/yshchur/contacts-api/internal/repositories/repomanager"
)

// upcomingBirthdayWindow is the lookahead used by UpcomingBirthdays.
const upcomingBirthdayWindow = 7

// ContactService scopes all contact operations to their owner.
type ContactService struct {
	db    *sql.DB
	repos repomanager.Manager
}

func NewContactService(db *sql.DB, repos repomanager.Manager) *ContactService {
	return &ContactService{db: db, repos: repos}
}

func (s *ContactService) List(ctx context.Context, userID string, f contacts.Filter) ([]*models.Contact, error) {
	list, err := s.repos.Contacts(s.db).List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return list, nil
}

func (s *ContactService) Get(ctx context.Context, userID string, id int64) (*models.Contact, error) {
	return s.repos.Contacts(s.db).Get(ctx, userID, id)
}

func (s *ContactService) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	created, err := s.repos.Contacts(s.db).Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	return s.repos.Contacts(s.db).Update(ctx, contact)
}

func (s *ContactService) Delete(ctx context.Context, userID string, id int64) error {
	return s.repos.Contacts(s.db).Delete(ctx, userID, id)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string) ([]*models.Contact, error) {
	list, err := s.repos.Contacts(s.db).UpcomingBirthdays(ctx, userID, upcomingBirthdayWindow)
	if err != nil {
		return nil, fmt.Errorf("listing birthdays: %w", err)
	}
	return list, nil
}
