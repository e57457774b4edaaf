package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

// In-memory repository fakes shared by the service tests. They mimic the
// constraints the real schema enforces: unique username/email, idempotent
// follow edges, and cascading deletes.

type fakeStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*entity.User
	msgs    map[string]*entity.Message
	follows map[[2]string]time.Time
	likes   map[[2]string]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]*entity.User{},
		msgs:    map[string]*entity.Message{},
		follows: map[[2]string]time.Time{},
		likes:   map[[2]string]time.Time{},
	}
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type fakeUserRepo struct{ s *fakeStore }
type fakeMessageRepo struct{ s *fakeStore }
type fakeFollowRepo struct{ s *fakeStore }
type fakeLikeRepo struct{ s *fakeStore }

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.MessageRepository = (*fakeMessageRepo)(nil)
	_ repository.FollowRepository  = (*fakeFollowRepo)(nil)
	_ repository.LikeRepository    = (*fakeLikeRepo)(nil)
)

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.nextID("user")
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) SearchByUsername(_ context.Context, q string) ([]*entity.User, error) {
	all, _ := r.List(context.Background())
	out := make([]*entity.User, 0, len(all))
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	// cascade like the schema does
	for mid, m := range r.s.msgs {
		if m.UserID == id {
			delete(r.s.msgs, mid)
		}
	}
	for edge := range r.s.follows {
		if edge[0] == id || edge[1] == id {
			delete(r.s.follows, edge)
		}
	}
	for lk := range r.s.likes {
		if lk[1] == id {
			delete(r.s.likes, lk)
		}
	}
	return nil
}

func (r *fakeMessageRepo) Create(_ context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID("msg")
	m.CreatedAt = time.Now().Add(time.Duration(r.s.seq) * time.Millisecond)
	if u, ok := r.s.users[m.UserID]; ok {
		m.Username = u.Username
		m.ImageURL = u.ImageURL
	}
	cp := *m
	r.s.msgs[m.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) ListByUser(_ context.Context, userID string) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Message, 0)
	for _, m := range r.s.msgs {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeMessageRepo) Feed(_ context.Context, userID string, limit int) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	visible := map[string]bool{userID: true}
	for edge := range r.s.follows {
		if edge[0] == userID {
			visible[edge[1]] = true
		}
	}
	out := make([]*entity.Message, 0)
	for _, m := range r.s.msgs {
		if visible[m.UserID] {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.msgs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.msgs, id)
	for lk := range r.s.likes {
		if lk[0] == id {
			delete(r.s.likes, lk)
		}
	}
	return nil
}

func (r *fakeFollowRepo) Add(_ context.Context, followerID, followedID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	edge := [2]string{followerID, followedID}
	if _, ok := r.s.follows[edge]; ok {
		return false, nil
	}
	r.s.follows[edge] = time.Now()
	return true, nil
}

func (r *fakeFollowRepo) Remove(_ context.Context, followerID, followedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.follows, [2]string{followerID, followedID})
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followedID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.follows[[2]string{followerID, followedID}]
	return ok, nil
}

func (r *fakeFollowRepo) ListFollowing(ctx context.Context, userID string) ([]*entity.User, error) {
	return r.listEdges(ctx, userID, true)
}

func (r *fakeFollowRepo) ListFollowers(ctx context.Context, userID string) ([]*entity.User, error) {
	return r.listEdges(ctx, userID, false)
}

func (r *fakeFollowRepo) listEdges(_ context.Context, userID string, following bool) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0)
	for edge := range r.s.follows {
		var otherID string
		if following && edge[0] == userID {
			otherID = edge[1]
		} else if !following && edge[1] == userID {
			otherID = edge[0]
		} else {
			continue
		}
		if u, ok := r.s.users[otherID]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeFollowRepo) Counts(_ context.Context, userID string) (int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var following, followers int
	for edge := range r.s.follows {
		if edge[0] == userID {
			following++
		}
		if edge[1] == userID {
			followers++
		}
	}
	return following, followers, nil
}

func (r *fakeLikeRepo) Toggle(_ context.Context, messageID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{messageID, userID}
	if _, ok := r.s.likes[key]; ok {
		delete(r.s.likes, key)
		return false, nil
	}
	r.s.likes[key] = time.Now()
	return true, nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, messageID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.likes[[2]string{messageID, userID}]
	return ok, nil
}

func (r *fakeLikeRepo) ListLikedMessages(_ context.Context, userID string) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Message, 0)
	for lk := range r.s.likes {
		if lk[1] != userID {
			continue
		}
		if m, ok := r.s.msgs[lk[0]]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeLikeRepo) CountGiven(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for lk := range r.s.likes {
		if lk[1] == userID {
			n++
		}
	}
	return n, nil
}

func sortNewestFirst(msgs []*entity.Message) {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
}

// fixture bundles the fakes plus the services under test.
type fixture struct {
	store      *fakeStore
	users      *fakeUserRepo
	messages   *fakeMessageRepo
	follows    *fakeFollowRepo
	likes      *fakeLikeRepo
	userSvc    *UserService
	messageSvc *MessageService
	socialSvc  *SocialService
	engageSvc  *EngagementService
}

func newFixture() *fixture {
	s := newFakeStore()
	f := &fixture{
		store:    s,
		users:    &fakeUserRepo{s: s},
		messages: &fakeMessageRepo{s: s},
		follows:  &fakeFollowRepo{s: s},
		likes:    &fakeLikeRepo{s: s},
	}
	f.userSvc = &UserService{Users: f.users, Messages: f.messages, Follows: f.follows, Likes: f.likes}
	f.messageSvc = &MessageService{Messages: f.messages}
	f.socialSvc = &SocialService{Users: f.users, Follows: f.follows}
	f.engageSvc = &EngagementService{Likes: f.likes, Messages: f.messages}
	return f
}

func (f *fixture) signup(ctx context.Context, username string) *entity.User {
	u, err := f.userSvc.Signup(ctx, SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	if err != nil {
		panic(err)
	}
	return u
}
