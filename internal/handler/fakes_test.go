package handler_test

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/queue"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL schema shared by the fake
// stores below.
type memDB struct {
	mu        sync.Mutex
	users     map[uint64]*model.User
	stores    map[uint64]*model.Store
	ratings   map[[2]uint64]*model.Rating
	nextID    uint64
	listCalls int
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[uint64]*model.User{},
		stores:  map[uint64]*model.Store{},
		ratings: map[[2]uint64]*model.Rating{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func (db *memDB) storeRatings(storeID uint64) []*model.Rating {
	var out []*model.Rating
	for _, r := range db.ratings {
		if r.StoreID == storeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func average(rs []*model.Rating) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Value
	}
	return round2(float64(sum) / float64(len(rs)))
}

type fakeUsers struct{ *memDB }

func (f fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, x := range f.users {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = f.id()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f fakeUsers) List(_ context.Context, flt repository.UserFilter, _ repository.Sort) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []model.User{}
	for _, u := range f.users {
		if flt.Role != "" && u.Role != flt.Role {
			continue
		}
		if flt.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(flt.Name)) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeStores struct{ *memDB }

func (f fakeStores) Create(_ context.Context, s *model.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.users[s.OwnerID]
	if !ok || owner.Role != model.RoleStoreOwner {
		return repository.ErrInvalidOwner
	}
	s.Email = repository.NormalizeEmail(s.Email)
	for _, x := range f.stores {
		if x.Email == s.Email {
			return repository.ErrStoreEmailExists
		}
	}
	s.ID = f.id()
	cp := *s
	f.stores[s.ID] = &cp
	return nil
}

func (f fakeStores) GetByOwner(_ context.Context, ownerID uint64) (*model.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *model.Store
	for _, s := range f.stores {
		if s.OwnerID == ownerID && (best == nil || s.ID < best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, repository.ErrStoreNotFound
	}
	cp := *best
	return &cp, nil
}

func (f fakeStores) GetDetail(_ context.Context, id uint64) (*repository.StoreDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	owner := f.users[s.OwnerID]
	rs := f.storeRatings(id)
	return &repository.StoreDetail{
		Store:         *s,
		OwnerName:     owner.Name,
		OwnerEmail:    owner.Email,
		AverageRating: average(rs),
		RatingCount:   int64(len(rs)),
	}, nil
}

func (f fakeStores) List(_ context.Context, flt repository.StoreFilter, _ repository.Sort, viewerID uint64) ([]repository.StoreSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []repository.StoreSummary{}
	for _, s := range f.stores {
		if flt.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(flt.Name)) {
			continue
		}
		rs := f.storeRatings(s.ID)
		sum := repository.StoreSummary{
			ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address, OwnerID: s.OwnerID,
			AverageRating: average(rs), RatingCount: int64(len(rs)),
		}
		if r, ok := f.ratings[[2]uint64{viewerID, s.ID}]; ok {
			sum.MyRating = r.Value
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeStores) AverageForOwner(ctx context.Context, ownerID uint64) (float64, error) {
	s, err := f.GetByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrStoreNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return average(f.storeRatings(s.ID)), nil
}

type fakeRatings struct{ *memDB }

func (f fakeRatings) Upsert(_ context.Context, userID, storeID uint64, value int) (*model.Rating, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value < model.MinRating || value > model.MaxRating {
		return nil, false, repository.ErrInvalidRating
	}
	if _, ok := f.stores[storeID]; !ok {
		return nil, false, repository.ErrStoreNotFound
	}
	key := [2]uint64{userID, storeID}
	if r, ok := f.ratings[key]; ok {
		r.Value = value
		r.UpdatedAt = time.Now()
		cp := *r
		return &cp, false, nil
	}
	r := &model.Rating{ID: f.id(), UserID: userID, StoreID: storeID, Value: value, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.ratings[key] = r
	cp := *r
	return &cp, true, nil
}

func (f fakeRatings) List(_ context.Context, flt repository.RatingFilter) ([]model.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Rating{}
	for _, r := range f.ratings {
		if (flt.UserID == 0 || r.UserID == flt.UserID) && (flt.StoreID == 0 || r.StoreID == flt.StoreID) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeRatings) AverageForStore(_ context.Context, storeID uint64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return average(f.storeRatings(storeID)), nil
}

func (f fakeRatings) RatersForStore(_ context.Context, storeID uint64) ([]repository.Rater, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.Rater{}
	for _, r := range f.storeRatings(storeID) {
		u := f.users[r.UserID]
		out = append(out, repository.Rater{ID: u.ID, Name: u.Name, Email: u.Email, Address: u.Address})
	}
	return out, nil
}

func (f fakeRatings) ListForStore(_ context.Context, storeID uint64) ([]repository.StoreRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.StoreRating{}
	for _, r := range f.storeRatings(storeID) {
		u := f.users[r.UserID]
		out = append(out, repository.StoreRating{UserID: u.ID, Name: u.Name, Email: u.Email, Rating: r.Value, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

type fakeStats struct{ *memDB }

func (f fakeStats) Summary(context.Context) (repository.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return repository.Summary{
		TotalUsers:   int64(len(f.users)),
		TotalStores:  int64(len(f.stores)),
		TotalRatings: int64(len(f.ratings)),
	}, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.RatingSubmittedEvent
}

func (f *fakeEvents) RatingSubmitted(ev queue.RatingSubmittedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeEvents) all() []queue.RatingSubmittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.RatingSubmittedEvent(nil), f.events...)
}
