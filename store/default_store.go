package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tnicklin/screambot/logger"
	"github.com/tnicklin/screambot/models"
	"github.com/tnicklin/screambot/storage"
)

var _ Store = (*DefaultStore)(nil)

// DefaultStore loads documents through a storage.Accessor and publishes
// them as immutable snapshots.
type DefaultStore struct {
	accessor   storage.Accessor
	configName string
	ranksName  string
	logger     logger.Logger

	config atomic.Pointer[models.Config]
	ranks  atomic.Pointer[models.Ranks]

	// Loads of the same document never overlap.
	configMu sync.Mutex
	ranksMu  sync.Mutex

	observerMu sync.RWMutex
	observer   Observer
}

type Params struct {
	Accessor   storage.Accessor
	ConfigName string
	RanksName  string
	Logger     logger.Logger
}

func New(p Params) *DefaultStore {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &DefaultStore{
		accessor:   p.Accessor,
		configName: p.ConfigName,
		ranksName:  p.RanksName,
		logger:     log,
	}
}

// SetObserver registers the receiver of reload notifications.
// Must be called before the first load to observe it.
func (s *DefaultStore) SetObserver(o Observer) {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	s.observer = o
}

func (s *DefaultStore) getObserver() Observer {
	s.observerMu.RLock()
	defer s.observerMu.RUnlock()
	return s.observer
}

func (s *DefaultStore) Config() *models.Config {
	return s.config.Load()
}

func (s *DefaultStore) Ranks() *models.Ranks {
	return s.ranks.Load()
}

func (s *DefaultStore) LoadConfig(ctx context.Context) error {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	firstTime := s.config.Load() == nil
	if firstTime {
		s.logger.InfoW("loading config", "name", s.configName)
	} else {
		s.logger.InfoW("updating config", "name", s.configName)
	}

	body, err := s.accessor.Access(ctx, s.configName, s.reloader(ctx, "config", s.LoadConfig))
	if err != nil {
		return s.fail(firstTime, "config", "Could not access the config file!", err)
	}

	cfg, err := models.ParseConfig(body)
	if err != nil {
		return s.fail(firstTime, "config", "The given config file is invalid!", err)
	}

	s.config.Store(cfg)
	s.logChannels(cfg)

	obs := s.getObserver()
	if obs != nil {
		obs.ConfigLoaded(cfg)
	}

	if firstTime {
		s.logger.InfoW("config successfully loaded")
		return nil
	}
	s.logger.InfoW("config successfully updated")
	if obs != nil {
		obs.NotifyOperators("Config successfully updated.")
	}
	return nil
}

func (s *DefaultStore) LoadRanks(ctx context.Context) error {
	s.ranksMu.Lock()
	defer s.ranksMu.Unlock()

	firstTime := s.ranks.Load() == nil
	if firstTime {
		s.logger.InfoW("loading ranks", "name", s.ranksName)
	} else {
		s.logger.InfoW("updating ranks", "name", s.ranksName)
	}

	body, err := s.accessor.Access(ctx, s.ranksName, s.reloader(ctx, "ranks", s.LoadRanks))
	if err != nil {
		return s.fail(firstTime, "ranks", "Could not access the ranks file!", err)
	}

	ranks, err := models.ParseRanks(body)
	if err != nil {
		return s.fail(firstTime, "ranks", "The given ranks file is invalid!", err)
	}

	s.ranks.Store(ranks)
	s.logger.InfoW("rank members", "admins", ranks.Admins, "devs", ranks.Devs)

	if firstTime {
		s.logger.InfoW("ranks successfully loaded")
		return nil
	}
	s.logger.InfoW("ranks successfully updated")
	if obs := s.getObserver(); obs != nil {
		obs.NotifyOperators("Ranks successfully updated.")
	}
	return nil
}

// reloader returns the change callback handed to the accessor. It outlives
// the caller's context cancellation.
func (s *DefaultStore) reloader(ctx context.Context, doc string, load func(context.Context) error) func() {
	ctx = context.WithoutCancel(ctx)
	return func() {
		if err := load(ctx); err != nil {
			s.logger.WarnW("hot reload failed", "document", doc, "error", err)
		}
	}
}

// fail applies the failure policy: a first load is fatal for the caller,
// a reload keeps the previous snapshot and tells the operators.
func (s *DefaultStore) fail(firstTime bool, doc, reason string, err error) error {
	if firstTime {
		s.logger.ErrorW("cannot continue without "+doc, "reason", reason, "error", err)
		return fmt.Errorf("%w: %s Screambot cannot continue: %w", ErrFirstLoad, reason, err)
	}

	msg := fmt.Sprintf("%s Keeping the old %s.", reason, doc)
	s.logger.ErrorW("reload failed, keeping previous "+doc, "reason", reason, "error", err)
	if obs := s.getObserver(); obs != nil {
		obs.NotifyOperators("ERROR! " + msg)
	}
	return fmt.Errorf("reload %s: %w", doc, err)
}

func (s *DefaultStore) logChannels(cfg *models.Config) {
	if len(cfg.Channels) == 0 {
		s.logger.WarnW("no channels specified to scream in")
		return
	}

	names := make([]string, 0, len(cfg.Channels))
	for name := range cfg.Channels {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (ID: %s)", name, cfg.Channels[name].ID))
	}
	s.logger.InfoW("registered channels", "channels", strings.Join(parts, ", "))
}
