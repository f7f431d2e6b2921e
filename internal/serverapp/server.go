package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"coinverse/internal/catalog"
	"coinverse/internal/config"
	"coinverse/internal/economy"
	"coinverse/internal/httpmw"
	"coinverse/internal/save"
	"coinverse/internal/telemetry"
)

type Options struct {
	Config         *config.Config
	DataDir        string
	CatalogBaseURL string
	Logger         *log.Logger
	// Clock overrides the engine clock; tests inject a FakeClock.
	Clock economy.Clock
	// Telemetry overrides the event repository.
	Telemetry telemetry.Repository
}

// App wires the per-profile economy engines, the catalog client and the
// HTTP surface together. Close tears down every armed scheduler.
type App struct {
	handler http.Handler
	engines *engineSet
	events  telemetry.Repository
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = "data"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = economy.RealClock{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewMemoryRepository()
	}

	saves, err := save.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	engines := &engineSet{
		entries:      map[string]*engineEntry{},
		saves:        saves,
		bal:          opts.Config.Balance,
		clock:        opts.Clock,
		logger:       opts.Logger,
		events:       opts.Telemetry,
		tickInterval: time.Duration(opts.Config.Balance.TickIntervalSeconds) * time.Second,
		ctx:          ctx,
		cancel:       cancel,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "coinverse",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	economyHandler := economy.NewHandler()
	economyHandler.SetStoreResolver(func(r *http.Request) *economy.Store {
		return engines.forProfile(profileFor(r))
	})
	mux.HandleFunc("/api/state", economyHandler.State)
	mux.HandleFunc("/api/missions/complete", economyHandler.CompleteMission)
	mux.HandleFunc("/api/quiz/answer", economyHandler.AnswerQuiz)
	mux.HandleFunc("/api/coins", economyHandler.AddCoins)
	mux.HandleFunc("/api/characters/unlock", economyHandler.UnlockCharacter)
	mux.HandleFunc("/api/characters/upgrade", economyHandler.UpgradeCharacter)
	mux.HandleFunc("/api/characters/select", economyHandler.SelectIncomeSource)
	mux.HandleFunc("/api/characters/fuse", economyHandler.FuseCharacters)
	mux.HandleFunc("/api/characters/sell", economyHandler.SellCharacter)
	mux.HandleFunc("/api/rewards/claim", economyHandler.ClaimLevelReward)
	mux.HandleFunc("/api/bonus/claim", economyHandler.ClaimDailyBonus)

	if strings.TrimSpace(opts.CatalogBaseURL) != "" {
		catalogClient := catalog.NewClient(opts.CatalogBaseURL)
		catalogHandler := catalog.NewHandler(catalogClient)
		mux.HandleFunc("/api/catalog/characters", catalogHandler.Characters)
		mux.HandleFunc("/api/characters/unlock-random", func(w http.ResponseWriter, r *http.Request) {
			unlockRandom(w, r, catalogClient, engines)
		})
	}

	events := opts.Telemetry
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		since := time.Now().AddDate(0, 0, -1)
		if raw := r.URL.Query().Get("days"); raw != "" {
			days, err := strconv.Atoi(raw)
			if err != nil || days < 1 {
				writeErr(w, http.StatusBadRequest, "invalid days")
				return
			}
			since = time.Now().AddDate(0, 0, -days)
		}
		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "could not read events")
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "could not compute stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	)

	return &App{
		handler: handler,
		engines: engines,
		events:  opts.Telemetry,
	}, nil
}

func (a *App) Handler() http.Handler { return a.handler }

// Engine returns the economy engine for a profile, creating it (and
// arming its scheduler) on first use.
func (a *App) Engine(profileID string) *economy.Store {
	return a.engines.forProfile(profileID)
}

func (a *App) Close() {
	a.engines.closeAll()
}

func profileFor(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get("X-Profile-Id"))
	if id == "" {
		return "default"
	}
	return id
}

func unlockRandom(w http.ResponseWriter, r *http.Request, client *catalog.Client, engines *engineSet) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c, err := client.RandomCharacter(r.Context(), rng)
	if err != nil {
		writeErr(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	store := engines.forProfile(profileFor(r))
	if err := store.UnlockCharacter(strconv.Itoa(c.ID), c.Name, c.Image); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not unlock character")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unlocked": c,
		"state":    store.Snapshot(),
	})
}

type engineEntry struct {
	store *economy.Store
	sched *economy.Scheduler
}

// engineSet lazily builds one engine per profile. Engine start-up runs
// offline reconciliation before the income ticker is armed.
type engineSet struct {
	mu           sync.Mutex
	entries      map[string]*engineEntry
	saves        *save.FileRepo
	bal          config.Balance
	clock        economy.Clock
	logger       *log.Logger
	events       telemetry.Recorder
	tickInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
}

func (s *engineSet) forProfile(profileID string) *economy.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[profileID]; ok {
		return e.store
	}

	store := economy.NewStore(economy.Options{
		Repo:      s.saves.ForProfile(profileID),
		Clock:     s.clock,
		Balance:   s.bal,
		Logger:    s.logger,
		Telemetry: profileRecorder{profile: profileID, next: s.events},
	})
	sched := economy.NewScheduler(store, s.tickInterval, s.logger)
	sched.Start(s.ctx)

	s.entries[profileID] = &engineEntry{store: store, sched: sched}
	return store
}

func (s *engineSet) closeAll() {
	s.mu.Lock()
	entries := make([]*engineEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	for _, e := range entries {
		e.sched.Stop()
	}
}

// profileRecorder tags every engine event with its profile id.
type profileRecorder struct {
	profile string
	next    telemetry.Recorder
}

func (p profileRecorder) RecordEvent(t telemetry.EventType, meta telemetry.EventMetadata) error {
	if p.next == nil {
		return nil
	}
	if meta == nil {
		meta = telemetry.EventMetadata{}
	}
	meta["profile"] = p.profile
	return p.next.RecordEvent(t, meta)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
