package access

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccess_FullTable(t *testing.T) {
	roles := []Role{RoleNone, RoleNonClient, RolePartner, RoleAdmin}

	expected := map[Level]map[bool]map[Role]bool{
		LevelPublic: {
			false: {RoleNone: true, RoleNonClient: true, RolePartner: true, RoleAdmin: true},
			true:  {RoleNone: false, RoleNonClient: false, RolePartner: false, RoleAdmin: false},
		},
		LevelNonClient: {
			false: {RoleNone: false, RoleNonClient: false, RolePartner: false, RoleAdmin: false},
			true:  {RoleNone: false, RoleNonClient: true, RolePartner: false, RoleAdmin: true},
		},
		LevelPartner: {
			false: {RoleNone: false, RoleNonClient: false, RolePartner: true, RoleAdmin: true},
			true:  {RoleNone: false, RoleNonClient: false, RolePartner: true, RoleAdmin: true},
		},
		LevelAdmin: {
			false: {RoleNone: false, RoleNonClient: false, RolePartner: false, RoleAdmin: true},
			true:  {RoleNone: false, RoleNonClient: false, RolePartner: false, RoleAdmin: true},
		},
	}

	count := 0
	for _, level := range Levels {
		for _, authenticated := range []bool{false, true} {
			for _, role := range roles {
				want := expected[level][authenticated][role]
				name := fmt.Sprintf("%s/auth=%v/role=%q", level, authenticated, role)
				t.Run(name, func(t *testing.T) {
					assert.Equal(t, want, CanAccess(level, authenticated, role))
				})
				count++
			}
		}
	}
	// 4 levels x 2 auth states is 8 rows, each over 4 roles
	assert.Equal(t, 32, count)
}

func TestCanAccess_UnknownLevelDenies(t *testing.T) {
	for _, role := range []Role{RoleNone, RoleNonClient, RolePartner, RoleAdmin} {
		assert.False(t, CanAccess(Level("superuser"), true, role))
		assert.False(t, CanAccess(Level(""), false, role))
	}
}

func TestCanAccess_AdminExcludedFromPublic(t *testing.T) {
	admin := Identity{UserID: "u1", Role: RoleAdmin, Authenticated: true}
	assert.False(t, admin.CanAccess(LevelPublic))
	assert.True(t, admin.CanAccess(LevelNonClient))
	assert.True(t, admin.CanAccess(LevelPartner))
	assert.True(t, admin.CanAccess(LevelAdmin))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("partner")
	require.NoError(t, err)
	assert.Equal(t, LevelPartner, level)

	_, err = ParseLevel("everyone")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleNone, role)

	role, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	type agent struct {
		name  string
		level Level
	}
	agents := []agent{
		{"open", LevelPublic},
		{"staff", LevelNonClient},
		{"partners", LevelPartner},
		{"ops", LevelAdmin},
	}
	levelOf := func(a agent) Level { return a.level }

	names := func(in []agent) []string {
		out := []string{}
		for _, a := range in {
			out = append(out, a.name)
		}
		return out
	}

	assert.Equal(t, []string{"open"}, names(Filter(Anonymous, agents, levelOf)))
	assert.Equal(t, []string{"partners"}, names(Filter(Identity{Authenticated: true, Role: RolePartner}, agents, levelOf)))
	assert.Equal(t, []string{"staff", "partners", "ops"}, names(Filter(Identity{Authenticated: true, Role: RoleAdmin}, agents, levelOf)))
}
