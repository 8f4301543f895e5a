package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"tvmanager/internal/domain/client"
	"tvmanager/internal/infrastructure/persistence/mappers"
	"tvmanager/internal/shared/logger"
)

// ClientBlobRepository implements client.Repository. The whole collection is
// stored as one JSON document.
//
// Records that cannot be turned into clients are kept verbatim and written
// back on every Save, so a partial Load never shrinks the stored document.
type ClientBlobRepository struct {
	store  kvEntryStore
	logger logger.Interface
	mapper mappers.ClientMapper

	mu         sync.Mutex
	unreadable []unreadableRecord
}

type unreadableRecord struct {
	id  string
	raw json.RawMessage
}

// NewClientBlobRepository creates a new ClientBlobRepository
func NewClientBlobRepository(db *gorm.DB, log logger.Interface) *ClientBlobRepository {
	return &ClientBlobRepository{
		store:  kvEntryStore{db: db},
		logger: log.Named("client_repository"),
		mapper: mappers.NewClientMapper(),
	}
}

// Load returns every readable stored client. A missing document is an empty
// collection; records that fail to decode are left out and held for Save.
func (r *ClientBlobRepository) Load(ctx context.Context) ([]*client.Client, error) {
	var raws []json.RawMessage
	if err := r.store.get(ctx, ClientsKey, &raws); err != nil {
		if errors.Is(err, errEntryNotFound) {
			r.setUnreadable(nil)
			return []*client.Client{}, nil
		}
		r.logger.Errorw("failed to load clients", "error", err)
		return nil, err
	}

	clients := make([]*client.Client, 0, len(raws))
	var unreadable []unreadableRecord
	for i, raw := range raws {
		if string(raw) == "null" {
			continue
		}
		var record mappers.ClientRecord
		err := json.Unmarshal(raw, &record)
		if err == nil {
			var c *client.Client
			if c, err = r.mapper.ToDomain(&record); err == nil {
				clients = append(clients, c)
				continue
			}
		}
		r.logger.Warnw("keeping unreadable client record as stored", "index", i, "client_id", record.ID, "error", err)
		unreadable = append(unreadable, unreadableRecord{id: record.ID, raw: raw})
	}

	r.setUnreadable(unreadable)
	return clients, nil
}

// Save overwrites the stored collection with clients followed by the records
// the last Load could not read. A held record is dropped once a client with
// its ID is saved.
func (r *ClientBlobRepository) Save(ctx context.Context, clients []*client.Client) error {
	saved := lo.SliceToMap(clients, func(c *client.Client) (string, struct{}) {
		return c.ID(), struct{}{}
	})

	r.mu.Lock()
	kept := lo.Filter(r.unreadable, func(u unreadableRecord, _ int) bool {
		_, replaced := saved[u.id]
		return u.id == "" || !replaced
	})
	r.mu.Unlock()

	entries := make([]any, 0, len(clients)+len(kept))
	for _, record := range r.mapper.ToRecords(clients) {
		entries = append(entries, record)
	}
	for _, u := range kept {
		entries = append(entries, u.raw)
	}

	if err := r.store.put(ctx, ClientsKey, entries); err != nil {
		r.logger.Errorw("failed to save clients", "count", len(clients), "error", err)
		return err
	}

	r.setUnreadable(kept)
	return nil
}

// Unreadable returns how many stored records the last Load could not read.
func (r *ClientBlobRepository) Unreadable() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unreadable)
}

// Version returns how many times the collection has been written
func (r *ClientBlobRepository) Version(ctx context.Context) (int, error) {
	return r.store.version(ctx, ClientsKey)
}

func (r *ClientBlobRepository) setUnreadable(records []unreadableRecord) {
	r.mu.Lock()
	r.unreadable = records
	r.mu.Unlock()
}
