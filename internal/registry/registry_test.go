package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/opsgate/internal/domain/route"
)

func TestNew_RejectsDuplicatePaths(t *testing.T) {
	_, err := New([]route.Descriptor{
		{Path: "/a", Name: "a", Active: true},
		{Path: "/a", Name: "a2", Active: true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate path")
}

func TestNew_RejectsEmptyPath(t *testing.T) {
	_, err := New([]route.Descriptor{{Name: "nameless"}})
	require.Error(t, err)
}

func TestByPath_RoundTripsEveryTableEntry(t *testing.T) {
	r := Default()

	seen := make(map[string]bool)
	for _, d := range r.All() {
		require.False(t, seen[d.Path], "path %s registered twice", d.Path)
		seen[d.Path] = true

		got := r.ByPath(d.Path)
		require.NotNil(t, got, "path %s not found", d.Path)
		assert.Equal(t, d, *got)
	}
}

func TestByPath_UnknownReturnsNil(t *testing.T) {
	r := Default()
	assert.Nil(t, r.ByPath("/no-such-page"))
	assert.Nil(t, r.ByPath(""))
}

func TestByWorkspace(t *testing.T) {
	r := Default()

	lab := r.ByWorkspace("化验室")
	require.NotNil(t, lab)
	assert.Equal(t, "/lab", lab.Path)

	assert.Nil(t, r.ByWorkspace("仓库"))
	assert.Nil(t, r.ByWorkspace(""))
}

func TestByStrategyAndPageType(t *testing.T) {
	r := Default()

	admins := r.ByStrategy(route.StrategyAdmin)
	require.NotEmpty(t, admins)
	for _, d := range admins {
		assert.Equal(t, route.StrategyAdmin, d.Strategy)
	}

	workspaces := r.ByPageType(route.PageWorkspace)
	require.Len(t, workspaces, 3)
	for _, d := range workspaces {
		assert.NotEmpty(t, d.WorkspaceName)
	}
}

func TestRequiresAuth(t *testing.T) {
	r := Default()

	assert.False(t, r.RequiresAuth("/"))
	assert.False(t, r.RequiresAuth("/auth/login"))
	assert.True(t, r.RequiresAuth("/lab"))
	assert.True(t, r.RequiresAuth("/boss"))
	// Unknown paths are treated as protected.
	assert.True(t, r.RequiresAuth("/no-such-page"))
}

func TestExcludedPaths(t *testing.T) {
	r := Default()

	excluded := r.ExcludedPaths()
	require.NotEmpty(t, excluded)

	set := make(map[string]bool, len(excluded))
	for _, p := range excluded {
		set[p] = true
	}
	assert.True(t, set["/"])
	assert.True(t, set["/auth/login"])
	assert.True(t, set["/lab"])
	assert.False(t, set["/boss"], "admin routes are never excluded")
	assert.False(t, set["/reports"], "external-identity routes are never excluded")
}

func TestHasPermission(t *testing.T) {
	r := Default()

	// No required roles: everyone passes, even without a role title.
	assert.True(t, r.HasPermission("/lab", ""))
	assert.True(t, r.HasPermission("/lab", "化验员"))

	// Required roles: empty role title is rejected, membership decides.
	assert.False(t, r.HasPermission("/boss", ""))
	assert.False(t, r.HasPermission("/boss", "化验员"))
	assert.True(t, r.HasPermission("/boss", "老板"))
	assert.True(t, r.HasPermission("/boss", "总经理"))

	// Unknown paths never grant permission.
	assert.False(t, r.HasPermission("/no-such-page", "老板"))
}

func TestNavigationMenu_GroupingAndOrder(t *testing.T) {
	r := Default()

	menu := r.NavigationMenu()
	require.NotEmpty(t, menu)

	byCategory := make(map[string]MenuGroup)
	for _, g := range menu {
		byCategory[g.Category] = g
	}

	ws, ok := byCategory["workspace"]
	require.True(t, ok)
	require.Len(t, ws.Routes, 3)
	assert.Equal(t, "/lab", ws.Routes[0].Path)
	assert.Equal(t, "/production", ws.Routes[1].Path)
	assert.Equal(t, "/purchasing", ws.Routes[2].Path)

	// Hidden and inactive routes never appear.
	for _, g := range menu {
		for _, d := range g.Routes {
			assert.True(t, d.Active, "%s is inactive", d.Path)
			assert.False(t, d.Metadata.Hidden, "%s is hidden", d.Path)
			assert.NotEqual(t, "/legacy-dashboard", d.Path)
		}
	}

	// Missing order sorts last within its category.
	sys, ok := byCategory["system"]
	require.True(t, ok)
	last := sys.Routes[len(sys.Routes)-1]
	assert.Equal(t, "/profile", last.Path)
}
