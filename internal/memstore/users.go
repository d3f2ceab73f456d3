package memstore

import (
	"context"

	"github.com/MikeMC777/tienda-checkout/internal/user"
)

type users struct{ v view }

func (r users) Create(_ context.Context, u *user.User) error {
	return r.v.write(func(j *journal) error {
		for _, existing := range r.v.s.users {
			if existing.Email == u.Email || existing.Username == u.Username {
				return user.ErrAlreadyExist
			}
		}
		now := r.v.s.now()
		u.CreatedAt, u.UpdatedAt = now, now
		cp := *u
		r.v.s.users[u.ID] = &cp
		j.record(func() { delete(r.v.s.users, cp.ID) })
		return nil
	})
}

func (r users) GetByID(_ context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r users) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r users) find(match func(*user.User) bool) (out *user.User, err error) {
	err = r.v.read(func() error {
		for _, u := range r.v.s.users {
			if match(u) {
				cp := *u
				out = &cp
				return nil
			}
		}
		return user.ErrNotFound
	})
	return out, err
}
