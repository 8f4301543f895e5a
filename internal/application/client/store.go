// Package client holds the client record store, the single owner of the
// in-memory client collection.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/shared/biztime"
	apperrors "tvmanager/internal/shared/errors"
	"tvmanager/internal/shared/logger"
	"tvmanager/internal/shared/utils"
)

// Store serializes every read and write of the client collection. Mutations
// are applied to a copy, persisted as a whole and only then made visible.
type Store struct {
	mu      sync.Mutex
	repo    client.Repository
	clock   biztime.Clock
	logger  logger.Interface
	clients []*client.Client
}

// Open creates a store and loads the persisted collection. A load failure
// starts the store empty.
func Open(ctx context.Context, repo client.Repository, clock biztime.Clock, log logger.Interface) *Store {
	s := &Store{
		repo:   repo,
		clock:  clock,
		logger: log.Named("client_store"),
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		s.logger.Warnw("failed to load clients, starting with an empty collection", "error", err)
		loaded = nil
	}
	s.clients = loaded
	s.logger.Debugw("client store opened", "count", len(loaded))
	return s
}

func (s *Store) Create(ctx context.Context, cmd CreateClientCommand) (*client.Client, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.ID != "" {
		if _, _, exists := findClient(s.clients, cmd.ID); exists {
			return nil, apperrors.NewConflictError("client already exists", cmd.ID)
		}
	}

	c, err := client.NewClient(client.NewClientParams{
		ID:                  cmd.ID,
		Name:                cmd.Name,
		WhatsAppNumber:      cmd.WhatsAppNumber,
		PanelUsername:       cmd.PanelUsername,
		CycleValue:          cmd.CycleValue,
		CycleDurationMonths: cmd.CycleDurationMonths,
		StartDate:           cmd.StartDate,
	}, s.clock.Now())
	if err != nil {
		return nil, mapDomainError(err)
	}

	err = s.commit(ctx, "create", func(next []*client.Client) ([]*client.Client, error) {
		return append(next, c), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("client created",
		"client_id", c.ID(),
		"whatsapp", utils.MaskPhone(c.WhatsAppNumber()),
		"expiration", biztime.FormatDate(c.ExpirationDate()),
	)
	return c.Clone(), nil
}

func (s *Store) Update(ctx context.Context, cmd UpdateClientCommand) (*client.Client, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *client.Client
	err := s.commit(ctx, "update", func(next []*client.Client) ([]*client.Client, error) {
		c, _, ok := findClient(next, cmd.ID)
		if !ok {
			return nil, notFound(cmd.ID)
		}
		err := c.Edit(client.EditParams{
			Name:                cmd.Name,
			WhatsAppNumber:      cmd.WhatsAppNumber,
			PanelUsername:       cmd.PanelUsername,
			CycleValue:          cmd.CycleValue,
			CycleDurationMonths: cmd.CycleDurationMonths,
			StartDate:           cmd.StartDate,
		})
		if err != nil {
			return nil, mapDomainError(err)
		}
		if cmd.RenewalHistory != nil {
			if err := c.ReplaceHistory(*cmd.RenewalHistory); err != nil {
				return nil, mapDomainError(err)
			}
		}
		if cmd.IsActive != nil {
			c.SetActive(*cmd.IsActive)
		}
		if cmd.LastMessageDate != nil {
			c.MarkContacted(*cmd.LastMessageDate)
		}
		updated = c
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("client updated", "client_id", cmd.ID)
	return updated.Clone(), nil
}

// Delete removes a client permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commit(ctx, "delete", func(next []*client.Client) ([]*client.Client, error) {
		_, idx, ok := findClient(next, id)
		if !ok {
			return nil, notFound(id)
		}
		return append(next[:idx], next[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("client deleted", "client_id", id)
	return nil
}

// MarkContacted records that a message was sent to the client at ts, or now
// when ts is zero.
func (s *Store) MarkContacted(ctx context.Context, id string, ts time.Time) (*client.Client, error) {
	if ts.IsZero() {
		ts = s.clock.Now()
	}
	return s.mutateOne(ctx, "mark_contacted", id, func(c *client.Client) error {
		c.MarkContacted(ts)
		return nil
	})
}

func (s *Store) ToggleActive(ctx context.Context, id string) (*client.Client, error) {
	return s.mutateOne(ctx, "toggle_active", id, func(c *client.Client) error {
		c.ToggleActive()
		return nil
	})
}

// Renew records a payment for the client.
func (s *Store) Renew(ctx context.Context, cmd RenewClientCommand) (*client.Client, *client.Renewal, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, nil, err
	}

	var renewal client.Renewal
	c, err := s.mutateOne(ctx, "renew", cmd.ID, func(c *client.Client) error {
		months := cmd.DurationMonths
		if months == 0 {
			months = c.CycleDurationMonths()
		}
		value := c.CycleValue()
		if cmd.Value != nil {
			value = *cmd.Value
		}

		r, err := c.RecordRenewal(months, value, s.clock.Now())
		if err != nil {
			return mapDomainError(err)
		}
		renewal = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Infow("client renewed",
		"client_id", c.ID(),
		"months", renewal.DurationMonths(),
		"value", renewal.Value().String(),
		"expiration", biztime.FormatDate(c.ExpirationDate()),
	)
	return c, &renewal, nil
}

// ReplaceAll swaps the whole collection, as done by an import.
func (s *Store) ReplaceAll(ctx context.Context, clients []*client.Client) error {
	dups := lo.FindDuplicatesBy(clients, func(c *client.Client) string { return c.ID() })
	if len(dups) > 0 {
		return apperrors.NewConflictError("duplicate client IDs", dups[0].ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commit(ctx, "replace_all", func([]*client.Client) ([]*client.Client, error) {
		return cloneAll(clients), nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("client collection replaced", "count", len(clients))
	return nil
}

func (s *Store) mutateOne(ctx context.Context, op, id string, fn func(c *client.Client) error) (*client.Client, error) {
	if err := utils.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var target *client.Client
	err := s.commit(ctx, op, func(next []*client.Client) ([]*client.Client, error) {
		c, _, ok := findClient(next, id)
		if !ok {
			return nil, notFound(id)
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		target = c
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("client mutated", "operation", op, "client_id", id)
	return target.Clone(), nil
}

// commit applies fn to a deep copy of the collection and persists the result.
// The live collection is replaced only after a successful save. Callers hold mu.
func (s *Store) commit(ctx context.Context, op string, fn func(next []*client.Client) ([]*client.Client, error)) error {
	next, err := fn(cloneAll(s.clients))
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Errorw("failed to persist clients", "operation", op, "error", err)
		return apperrors.Wrap(apperrors.ErrorTypeInternal, "failed to save clients", err)
	}

	s.clients = next
	return nil
}

func findClient(clients []*client.Client, id string) (*client.Client, int, bool) {
	return lo.FindIndexOf(clients, func(c *client.Client) bool {
		return c.ID() == strings.TrimSpace(id)
	})
}

func cloneAll(clients []*client.Client) []*client.Client {
	return lo.Map(clients, func(c *client.Client, _ int) *client.Client {
		return c.Clone()
	})
}

func notFound(id string) error {
	return apperrors.Wrap(apperrors.ErrorTypeNotFound, "client not found", client.ErrNotFound(id))
}

// mapDomainError turns domain sentinel errors into validation errors.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, client.ErrInvalidDuration),
		errors.Is(err, client.ErrNegativeValue),
		errors.Is(err, client.ErrMissingStartDate),
		errors.Is(err, client.ErrEmptyHistory),
		errors.Is(err, client.ErrHistoryOutOfOrder):
		return apperrors.Wrap(apperrors.ErrorTypeValidation, err.Error(), err)
	case errors.Is(err, client.ErrClientNotFound):
		return apperrors.Wrap(apperrors.ErrorTypeNotFound, err.Error(), err)
	default:
		return fmt.Errorf("client operation failed: %w", err)
	}
}
