package pkceflow

import (
	"context"
	"maps"

	"github.com/oauth2kit/pkceflow/internal/logging"
	"github.com/oauth2kit/pkceflow/storage"
)

const metaKeyCodeVerifier = "codeVerifier"

// FlowMeta is the state of an in-flight PKCE flow: the code verifier plus
// any caller-supplied flow parameters that must survive the redirect, such
// as the state value or the original route. A flow record is replaced or
// cleared as a whole, never mutated in place.
type FlowMeta struct {
	CodeVerifier string
	Params       map[string]string
}

// MetaStore persists FlowMeta across the redirect boundary. Reads try an
// ordered list of tiers: the durable tier first, kept for records written by
// older components, then the session tier. Writes always go to the session
// tier, which is canonical for new flows.
//
// The store detects concurrent flows but does not prevent them. The tiers
// are shared mutable state across all flow attempts (multiple tabs, multiple
// goroutines) and Save/Load are not transactional: two overlapping flows can
// interleave so that one Load fails with StateNotFoundError or picks up the
// other flow's record. This is an accepted trade-off; callers needing more
// can layer a lock on top of the storage backends.
type MetaStore struct {
	readTiers []storage.Backend // durable first
	writeTier storage.Backend
}

// NewMetaStore builds a store over the two tiers. Both arguments may be the
// same backend when the runtime has only one storage scope.
func NewMetaStore(durable, session storage.Backend) *MetaStore {
	return &MetaStore{
		readTiers: []storage.Backend{durable, session},
		writeTier: session,
	}
}

// ResolveMetaStore builds a MetaStore from storage configuration, delegating
// the tier-to-backend mapping to the storage package.
func ResolveMetaStore(cfg storage.Config) *MetaStore {
	return NewMetaStore(storage.Resolve(cfg))
}

// SaveMeta stores meta as the single in-flight flow record. A verifier
// already present in either tier means another flow is in progress; that is
// logged as a warning and the write proceeds, because aborting would break
// legitimate retries after a failed navigation. Both tiers are cleared
// before the write so a stale record never outlives a new flow.
func (s *MetaStore) SaveMeta(ctx context.Context, meta FlowMeta) error {
	for _, tier := range s.readTiers {
		record, err := tier.Get(ctx)
		if err != nil {
			return err
		}
		if record[metaKeyCodeVerifier] != "" {
			logging.FromContext(ctx).Warn("a PKCE flow is already in progress, overwriting its state")
			break
		}
	}
	if err := s.ClearMeta(ctx); err != nil {
		return err
	}
	return s.writeTier.Set(ctx, encodeMeta(meta))
}

// LoadMeta returns the in-flight flow record, trying the durable tier before
// the session tier. It returns *StateNotFoundError when neither tier has a
// record with a code verifier; storage failures propagate as-is.
func (s *MetaStore) LoadMeta(ctx context.Context) (FlowMeta, error) {
	for _, tier := range s.readTiers {
		record, err := tier.Get(ctx)
		if err != nil {
			return FlowMeta{}, err
		}
		if record[metaKeyCodeVerifier] != "" {
			return decodeMeta(record), nil
		}
	}
	return FlowMeta{}, &StateNotFoundError{}
}

// ClearMeta wipes the session tier, then the durable tier. Clearing an
// already-empty tier is a no-op, so ClearMeta is idempotent.
func (s *MetaStore) ClearMeta(ctx context.Context) error {
	if err := s.writeTier.Clear(ctx); err != nil {
		return err
	}
	for _, tier := range s.readTiers {
		if tier == s.writeTier {
			continue
		}
		if err := tier.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

func encodeMeta(meta FlowMeta) map[string]string {
	record := make(map[string]string, len(meta.Params)+1)
	maps.Copy(record, meta.Params)
	record[metaKeyCodeVerifier] = meta.CodeVerifier
	return record
}

func decodeMeta(record map[string]string) FlowMeta {
	params := maps.Clone(record)
	delete(params, metaKeyCodeVerifier)
	return FlowMeta{
		CodeVerifier: record[metaKeyCodeVerifier],
		Params:       params,
	}
}
