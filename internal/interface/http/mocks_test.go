package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

// Map-backed repositories for the route tests. Handler tests run requests
// sequentially, so no locking is needed here.

type memDB struct {
	seq     int
	users   map[string]*entity.User
	msgs    map[string]*entity.Message
	follows map[[2]string]bool
	likes   map[[2]string]bool
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[string]*entity.User{},
		msgs:    map[string]*entity.Message{},
		follows: map[[2]string]bool{},
		likes:   map[[2]string]bool{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

type memUserRepo struct{ db *memDB }
type memMessageRepo struct{ db *memDB }
type memFollowRepo struct{ db *memDB }
type memLikeRepo struct{ db *memDB }

var (
	_ repository.UserRepository    = (*memUserRepo)(nil)
	_ repository.MessageRepository = (*memMessageRepo)(nil)
	_ repository.FollowRepository  = (*memFollowRepo)(nil)
	_ repository.LikeRepository    = (*memLikeRepo)(nil)
)

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.db.users {
		if e.Username == u.Username || e.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.db.nextID("user")
	u.CreatedAt = time.Now()
	r.db.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memUserRepo) SearchByUsername(_ context.Context, q string) ([]*entity.User, error) {
	all, _ := r.List(context.Background())
	out := make([]*entity.User, 0)
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, e := range r.db.users {
		if id != u.ID && (e.Username == u.Username || e.Email == u.Email) {
			return repository.ErrDuplicate
		}
	}
	r.db.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	for mid, m := range r.db.msgs {
		if m.UserID == id {
			delete(r.db.msgs, mid)
		}
	}
	return nil
}

func (r *memMessageRepo) Create(_ context.Context, m *entity.Message) error {
	m.ID = r.db.nextID("msg")
	m.CreatedAt = time.Now().Add(time.Duration(r.db.seq) * time.Millisecond)
	if u, ok := r.db.users[m.UserID]; ok {
		m.Username = u.Username
		m.ImageURL = u.ImageURL
	}
	r.db.msgs[m.ID] = m
	return nil
}

func (r *memMessageRepo) GetByID(_ context.Context, id string) (*entity.Message, error) {
	m, ok := r.db.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *memMessageRepo) ListByUser(_ context.Context, userID string) ([]*entity.Message, error) {
	out := make([]*entity.Message, 0)
	for _, m := range r.db.msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sortByNewest(out)
	return out, nil
}

func (r *memMessageRepo) Feed(_ context.Context, userID string, limit int) ([]*entity.Message, error) {
	visible := map[string]bool{userID: true}
	for edge := range r.db.follows {
		if edge[0] == userID {
			visible[edge[1]] = true
		}
	}
	out := make([]*entity.Message, 0)
	for _, m := range r.db.msgs {
		if visible[m.UserID] {
			out = append(out, m)
		}
	}
	sortByNewest(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.msgs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.msgs, id)
	return nil
}

func (r *memFollowRepo) Add(_ context.Context, followerID, followedID string) (bool, error) {
	edge := [2]string{followerID, followedID}
	if r.db.follows[edge] {
		return false, nil
	}
	r.db.follows[edge] = true
	return true, nil
}

func (r *memFollowRepo) Remove(_ context.Context, followerID, followedID string) error {
	delete(r.db.follows, [2]string{followerID, followedID})
	return nil
}

func (r *memFollowRepo) Exists(_ context.Context, followerID, followedID string) (bool, error) {
	return r.db.follows[[2]string{followerID, followedID}], nil
}

func (r *memFollowRepo) ListFollowing(_ context.Context, userID string) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for edge := range r.db.follows {
		if edge[0] == userID {
			if u, ok := r.db.users[edge[1]]; ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r *memFollowRepo) ListFollowers(_ context.Context, userID string) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for edge := range r.db.follows {
		if edge[1] == userID {
			if u, ok := r.db.users[edge[0]]; ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r *memFollowRepo) Counts(_ context.Context, userID string) (int, int, error) {
	var following, followers int
	for edge := range r.db.follows {
		if edge[0] == userID {
			following++
		}
		if edge[1] == userID {
			followers++
		}
	}
	return following, followers, nil
}

func (r *memLikeRepo) Toggle(_ context.Context, messageID, userID string) (bool, error) {
	key := [2]string{messageID, userID}
	if r.db.likes[key] {
		delete(r.db.likes, key)
		return false, nil
	}
	r.db.likes[key] = true
	return true, nil
}

func (r *memLikeRepo) Exists(_ context.Context, messageID, userID string) (bool, error) {
	return r.db.likes[[2]string{messageID, userID}], nil
}

func (r *memLikeRepo) ListLikedMessages(_ context.Context, userID string) ([]*entity.Message, error) {
	out := make([]*entity.Message, 0)
	for key := range r.db.likes {
		if key[1] != userID {
			continue
		}
		if m, ok := r.db.msgs[key[0]]; ok {
			out = append(out, m)
		}
	}
	sortByNewest(out)
	return out, nil
}

func (r *memLikeRepo) CountGiven(_ context.Context, userID string) (int, error) {
	n := 0
	for key := range r.db.likes {
		if key[1] == userID {
			n++
		}
	}
	return n, nil
}

func sortByNewest(msgs []*entity.Message) {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
}
