package forecast

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

// initialResidualVariance seeds the per-dimension residual variance for new
// users so the very first forecast carries a non-trivial interval.
const initialResidualVariance = 0.02

// Engine is the sleep-metric forecasting engine. One Engine owns the model
// for a deployment: shared PLRNN connectivity updated by online learning,
// plus a keyed per-user history and latent-state map. Construct with
// NewEngine; the zero value is not usable.
//
// Updates for the same user are serialized; different users proceed in
// parallel. The shared connectivity is replaced atomically under its own
// lock, so predictions never observe a half-applied update.
type Engine struct {
	cfg     Config
	mapper  Mapper
	learner learner
	history *historyStore

	initOnce sync.Once
	ready    bool

	modelMu sync.RWMutex
	model   *params

	usersMu sync.Mutex
	users   map[uuid.UUID]*userState
}

// userState is the per-user latent estimate. The observation model is
// identity, so the latent estimate tracks the last observed normalized
// vector under teacher forcing.
type userState struct {
	mu          sync.Mutex
	last        [LatentDim]float64
	lastDate    time.Time
	timestep    int
	residualVar [LatentDim]float64
}

// NewEngine creates an engine with the given configuration. Invalid
// configuration fails here, at construction time, never later.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		mapper:  NewMapper(cfg.Normalization),
		learner: newLearner(cfg),
		history: newHistoryStore(),
		users:   make(map[uuid.UUID]*userState),
	}, nil
}

// Initialize sets up the shared model parameters. Calling any entry point
// first initializes transparently, exactly once; Initialize exists so
// callers can pay the cost eagerly.
func (e *Engine) Initialize() {
	e.ensureInit()
}

// IsReady reports whether the shared parameters have been initialized.
func (e *Engine) IsReady() bool {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.ready
}

func (e *Engine) ensureInit() {
	e.initOnce.Do(func() {
		e.modelMu.Lock()
		e.model = newParams(e.cfg.Seed)
		e.ready = true
		e.modelMu.Unlock()
	})
}

// AddSleepEntry appends one observed night to the user's history and
// advances their latent estimate, without touching the shared connectivity.
func (e *Engine) AddSleepEntry(entry domain.HistoryEntry) {
	e.ensureInit()

	e.history.add(entry)

	st := e.userState(entry.UserID)
	st.mu.Lock()
	defer st.mu.Unlock()
	e.advanceStateLocked(st, entry, false)
}

// TrainOnline incorporates one new observation: the entry is appended to the
// user's history (history only grows) and the shared connectivity receives a
// single guarded error-correcting step against the new observation. A step
// that would produce non-finite or runaway parameters is discarded and the
// previous parameters are retained.
func (e *Engine) TrainOnline(userID uuid.UUID, entry domain.HistoryEntry) {
	e.ensureInit()

	entry.UserID = userID
	e.history.add(entry)

	st := e.userState(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	e.advanceStateLocked(st, entry, true)
}

// advanceStateLocked moves the user's latent estimate to the new observation
// under teacher forcing, updating the residual variance from the one-step
// error. When train is true the shared parameters take a guarded gradient
// step on the same transition. Entries dated before the current estimate
// only extend the stored history; the estimate stays at the newest night.
func (e *Engine) advanceStateLocked(st *userState, entry domain.HistoryEntry, train bool) {
	observed := e.mapper.ToVector(entry.Metrics, entry.SubjectiveQuality)

	if st.timestep == 0 {
		st.last = observed
		st.lastDate = entry.Date
		st.timestep = 1
		for i := range st.residualVar {
			st.residualVar[i] = initialResidualVariance
		}
		return
	}

	if entry.Date.Before(st.lastDate) {
		// Backfilled night: history absorbed it, but the latent estimate
		// keeps tracking the newest observation.
		return
	}

	prev := st.last
	if train {
		e.modelMu.RLock()
		model := e.model
		e.modelMu.RUnlock()

		next, errVec, ok := e.learner.update(model, prev, observed)
		updateResidualVariance(&st.residualVar, errVec)
		if ok {
			e.modelMu.Lock()
			e.model = next
			e.modelMu.Unlock()
		}
	} else {
		predicted := e.snapshotModel().step(prev)
		var errVec [LatentDim]float64
		for i := 0; i < LatentDim; i++ {
			errVec[i] = observed[i] - predicted[i]
		}
		updateResidualVariance(&st.residualVar, errVec)
	}

	st.last = observed
	st.lastDate = entry.Date
	st.timestep++
}

// Predict produces a bounded multi-horizon forecast for the user, or nil
// when their history holds fewer than the configured minimum entries.
// Insufficient data is an expected outcome, not an error.
func (e *Engine) Predict(userID uuid.UUID, horizon domain.Horizon) *domain.Prediction {
	e.ensureInit()

	dur, ok := e.cfg.HorizonDuration(horizon)
	if !ok {
		return nil
	}

	hist := e.history.get(userID)
	if len(hist) < e.cfg.MinHistoryEntries {
		return nil
	}

	st := e.userState(userID)
	st.mu.Lock()
	start := st.last
	startDate := st.lastDate
	residualVar := st.residualVar
	st.mu.Unlock()

	model := e.snapshotModel()
	return e.buildPrediction(model, userID, horizon, dur, start, startDate, residualVar, hist)
}

// History returns the user's date-ordered history. Unknown users yield an
// empty slice.
func (e *Engine) History(userID uuid.UUID) []domain.HistoryEntry {
	e.ensureInit()
	return e.history.get(userID)
}

// CurrentState returns a snapshot of the user's latent estimate, or nil when
// the user has never been observed.
func (e *Engine) CurrentState(userID uuid.UUID) *domain.LatentState {
	e.ensureInit()

	e.usersMu.Lock()
	st, ok := e.users[userID]
	e.usersMu.Unlock()
	if !ok {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.timestep == 0 {
		return nil
	}

	model := e.snapshotModel()
	phi := model.hidden(st.last)

	out := &domain.LatentState{
		LatentState:       make([]float64, LatentDim),
		ObservedState:     make([]float64, LatentDim),
		HiddenActivations: make([]float64, HiddenUnits),
		Uncertainty:       make([]float64, LatentDim),
		Timestep:          st.timestep,
	}
	for i := 0; i < LatentDim; i++ {
		out.LatentState[i] = st.last[i]
		out.ObservedState[i] = st.last[i]
		out.Uncertainty[i] = math.Sqrt(st.residualVar[i])
	}
	for j := 0; j < HiddenUnits; j++ {
		out.HiddenActivations[j] = phi[j]
	}
	return out
}

// Stats reports how many users and entries the engine tracks.
func (e *Engine) Stats() domain.EngineStats {
	e.ensureInit()
	return e.history.stats()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) snapshotModel() *params {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model
}

func (e *Engine) userState(userID uuid.UUID) *userState {
	e.usersMu.Lock()
	defer e.usersMu.Unlock()

	st, ok := e.users[userID]
	if !ok {
		st = &userState{}
		e.users[userID] = st
	}
	return st
}
