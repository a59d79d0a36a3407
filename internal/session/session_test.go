package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SignInOut(t *testing.T) {
	s := NewStore()
	assert.Equal(t, RoleGuest, s.Role())
	assert.Empty(t, s.Token())

	s.SignIn(" ana ", "", "tok")
	assert.Equal(t, Identity{User: "ana", Role: RoleClient, Token: "tok"}, s.Current())

	s.SignIn("root", "ADMIN", "tok2")
	assert.True(t, s.Current().IsAdmin())

	s.SignOut()
	assert.Equal(t, Identity{Role: RoleGuest}, s.Current())
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	var seen []string
	unsubscribe := s.Subscribe(func(id Identity) { seen = append(seen, id.Role) })

	s.SignIn("root", RoleAdmin, "t")
	s.SignIn("root", RoleAdmin, "t")
	s.SignOut()
	assert.Equal(t, []string{RoleAdmin, RoleGuest}, seen, "unchanged identity is not re-announced")

	unsubscribe()
	unsubscribe()
	s.SignIn("ana", RoleClient, "t")
	assert.Len(t, seen, 2)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewStore()
	var role string
	s.Subscribe(func(Identity) { role = s.Role() })
	s.SignIn("ana", RoleClient, "")
	assert.Equal(t, RoleClient, role)
}
