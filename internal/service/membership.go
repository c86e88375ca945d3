package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
)

// EditMode selects what MembershipService.Edit persists.
type EditMode string

const (
	// EditApply copies the payload onto the stored reader.
	EditApply EditMode = "apply"
	// EditNoop only checks that the ids match and the reader exists,
	// and saves nothing. Kept for clients relying on the legacy behavior.
	EditNoop EditMode = "noop"
)

type MembershipOption func(*MembershipService)

func WithEditMode(mode EditMode) MembershipOption {
	return func(s *MembershipService) {
		if mode != "" {
			s.editMode = mode
		}
	}
}

type MembershipService struct {
	store    *repository.Store
	editMode EditMode
}

func NewMembershipService(store *repository.Store, opts ...MembershipOption) *MembershipService {
	s := &MembershipService{
		store:    store,
		editMode: EditApply,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MembershipService) Add(ctx context.Context, reader model.Reader) (*model.Reader, error) {
	if err := validateReader(reader); err != nil {
		return nil, err
	}

	reader.ID = 0
	reader.Loans = nil
	normalizeReader(&reader)

	if err := s.store.Readers.Create(ctx, &reader); err != nil {
		return nil, fmt.Errorf("create reader: %w", err)
	}

	logging.FromContext(ctx).Info("reader added", "reader_id", reader.ID)
	return &reader, nil
}

// GetByID returns the reader with the loan history attached.
func (s *MembershipService) GetByID(ctx context.Context, id uint) (*model.Reader, error) {
	reader, err := s.store.Readers.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrReaderNotFound
		}
		return nil, fmt.Errorf("find reader %d: %w", id, err)
	}
	return reader, nil
}

func (s *MembershipService) Edit(ctx context.Context, id uint, updated model.Reader) error {
	if id != updated.ID {
		return ErrIDMismatch
	}

	if s.editMode == EditNoop {
		ok, err := s.store.Readers.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("find reader %d: %w", id, err)
		}
		if !ok {
			return ErrReaderNotFound
		}
		logging.FromContext(ctx).Debug("reader edit skipped", "reader_id", id, "mode", string(s.editMode))
		return nil
	}

	if err := validateReader(updated); err != nil {
		return err
	}
	normalizeReader(&updated)

	if err := s.store.Readers.Update(ctx, &updated); err != nil {
		if repository.IsNotFound(err) {
			return ErrReaderNotFound
		}
		return fmt.Errorf("update reader %d: %w", id, err)
	}
	return nil
}

// Delete removes a reader and their returned-loan history. Readers still
// holding books cannot be deleted.
func (s *MembershipService) Delete(ctx context.Context, id uint) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		ok, err := tx.Readers.Lock(ctx, id, repository.LockUpdate)
		if err != nil {
			return fmt.Errorf("find reader %d: %w", id, err)
		}
		if !ok {
			return ErrReaderNotFound
		}

		open, err := tx.Loans.CountOpenByReader(ctx, id)
		if err != nil {
			return fmt.Errorf("count open loans for reader %d: %w", id, err)
		}
		if open > 0 {
			return conflictError(CodeReaderHasOpenLoans, "reader still holds borrowed books")
		}

		if err := tx.Loans.DeleteClosedByReader(ctx, id); err != nil {
			return fmt.Errorf("delete loan history for reader %d: %w", id, err)
		}
		if err := tx.Readers.Delete(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrReaderNotFound
			}
			return fmt.Errorf("delete reader %d: %w", id, err)
		}
		return nil
	})
}

func validateReader(r model.Reader) error {
	switch {
	case strings.TrimSpace(r.LastName) == "":
		return validationError(CodeInvalidReader, "last_name is required")
	case strings.TrimSpace(r.Name) == "":
		return validationError(CodeInvalidReader, "name is required")
	case strings.TrimSpace(r.MiddleName) == "":
		return validationError(CodeInvalidReader, "middle_name is required")
	case r.DayOfBirthday.IsZero():
		return validationError(CodeInvalidReader, "day_of_birthday is required")
	}
	return nil
}

func normalizeReader(r *model.Reader) {
	r.LastName = strings.TrimSpace(r.LastName)
	r.Name = strings.TrimSpace(r.Name)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
}
