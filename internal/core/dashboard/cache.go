package dashboard

import (
	"sync"

	"github.com/healthdash/healthdash-go/internal/core/metrics"
)

// Update is a partial ViewModel: nil fields are retained from the prior
// state, set fields overwrite shallowly.
type Update struct {
	Metrics       *metrics.KPI
	TrendData     *metrics.Series
	HeartRateData *metrics.Series
	SleepData     *metrics.Series
	WaterData     *metrics.Series
	DiseaseData   *[]metrics.PieSlice
	AgeGroups     *[]metrics.AgeGroup
	Insights      *[]metrics.Insight
	Anomalies     *[]metrics.AnomalyEntry
	Trends        *[]metrics.TrendEntry
}

// SessionCache holds the current ViewModel and the active dataset id.
// It is constructor-injected rather than a package global so tests can
// run isolated instances. The id and model are only ever written
// together under one lock; a reader can never observe a dataset id
// paired with another dataset's model.
type SessionCache struct {
	mu      sync.RWMutex
	model   metrics.ViewModel
	dataID  string
	subs    map[int]func(metrics.ViewModel)
	nextSub int
}

// NewSessionCache creates a cache seeded with an initial model,
// typically the mock provider's defaults.
func NewSessionCache(initial *metrics.ViewModel) *SessionCache {
	c := &SessionCache{
		subs: make(map[int]func(metrics.ViewModel)),
	}
	if initial != nil {
		c.model = *initial
	}
	return c
}

// Snapshot returns a copy of the current model with the active dataset
// id filled in. Slices are shared; callers must treat them as read-only.
func (c *SessionCache) Snapshot() metrics.ViewModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := c.model
	m.CurrentDataID = c.dataID
	return m
}

// CurrentDataID returns the active dataset id, empty when none
func (c *SessionCache) CurrentDataID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataID
}

// Merge applies a partial update, retaining unset fields, and notifies
// subscribers. Concurrent merges of disjoint fields are safe;
// last-write-wins per field.
func (c *SessionCache) Merge(u Update) {
	c.mu.Lock()
	c.apply(u)
	snapshot, subs := c.snapshotAndSubsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Activate atomically sets the active dataset id and merges the model
// computed for it. This is the only way to change the dataset id
// forward, keeping id and data in lockstep.
func (c *SessionCache) Activate(dataID string, u Update) {
	c.mu.Lock()
	c.dataID = dataID
	c.apply(u)
	snapshot, subs := c.snapshotAndSubsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Reset clears the dataset id and replaces the model wholesale,
// returning the cache to its fallback state.
func (c *SessionCache) Reset(model *metrics.ViewModel) {
	c.mu.Lock()
	c.dataID = ""
	if model != nil {
		c.model = *model
	} else {
		c.model = metrics.ViewModel{}
	}
	snapshot, subs := c.snapshotAndSubsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers a callback invoked with a snapshot after every
// merge. Callbacks run outside the cache lock, so delivery order across
// concurrent merges is unspecified; each delivered snapshot is
// internally consistent. The returned function cancels the
// subscription.
func (c *SessionCache) Subscribe(fn func(metrics.ViewModel)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *SessionCache) apply(u Update) {
	if u.Metrics != nil {
		c.model.Metrics = *u.Metrics
	}
	if u.TrendData != nil {
		c.model.TrendData = *u.TrendData
	}
	if u.HeartRateData != nil {
		c.model.HeartRateData = *u.HeartRateData
	}
	if u.SleepData != nil {
		c.model.SleepData = *u.SleepData
	}
	if u.WaterData != nil {
		c.model.WaterData = *u.WaterData
	}
	if u.DiseaseData != nil {
		c.model.DiseaseData = *u.DiseaseData
	}
	if u.AgeGroups != nil {
		c.model.AgeGroups = *u.AgeGroups
	}
	if u.Insights != nil {
		c.model.Insights = *u.Insights
	}
	if u.Anomalies != nil {
		c.model.Anomalies = *u.Anomalies
	}
	if u.Trends != nil {
		c.model.Trends = *u.Trends
	}
}

func (c *SessionCache) snapshotAndSubsLocked() (metrics.ViewModel, []func(metrics.ViewModel)) {
	m := c.model
	m.CurrentDataID = c.dataID
	subs := make([]func(metrics.ViewModel), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return m, subs
}

// UpdateFromViewModel builds the partial update corresponding to a
// freshly transformed backend payload. Mock-backed fields (disease
// slices, age groups, insights) are left unset so the prior values
// survive the merge, matching how a dataset activation behaves.
func UpdateFromViewModel(vm *metrics.ViewModel) Update {
	return Update{
		Metrics:       &vm.Metrics,
		TrendData:     &vm.TrendData,
		HeartRateData: &vm.HeartRateData,
		SleepData:     &vm.SleepData,
		WaterData:     &vm.WaterData,
		Anomalies:     &vm.Anomalies,
		Trends:        &vm.Trends,
	}
}
