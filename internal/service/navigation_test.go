package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/plantops/opsgate/internal/errors"
	mocksauth "github.com/plantops/opsgate/internal/mocks/auth"
	"github.com/plantops/opsgate/internal/registry"
)

func newGateway() *NavGateway {
	return NewNavGateway(registry.Default(), nil)
}

func TestNavigateTo_Push(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	var succeeded string
	g.NavigateTo(router, "/lab", NavigateOptions{
		OnSuccess: func(target string) { succeeded = target },
	})

	assert.Equal(t, []string{"/lab"}, router.Pushes)
	assert.Equal(t, "/lab", succeeded)
}

func TestNavigateTo_ReplaceAndPreserveQuery(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	g.NavigateTo(router, "/shift-sample", NavigateOptions{
		Replace:       true,
		PreserveQuery: true,
		CurrentQuery:  "?date=2024-01-01",
	})

	require.Len(t, router.Replaces, 1)
	assert.Equal(t, "/shift-sample?date=2024-01-01", router.Replaces[0])
}

func TestNavigateTo_UnknownRouteFallsBack(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	var navErr error
	g.NavigateTo(router, "/no-such-page", NavigateOptions{
		OnError: func(err error) { navErr = err },
	})

	require.Error(t, navErr)
	assert.True(t, apperrors.IsNotFound(navErr))
	assert.Equal(t, registry.HomePath, router.Current(), "hard fallback to home")
	assert.Empty(t, router.Pushes)
}

func TestNavigateTo_InactiveRouteFallsBack(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	var navErr error
	g.NavigateTo(router, "/legacy-dashboard", NavigateOptions{
		OnError: func(err error) { navErr = err },
	})

	require.Error(t, navErr)
	assert.Equal(t, registry.HomePath, router.Current())
}

func TestNavigateTo_RouterFailureReportsAndFallsBack(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{PushErr: assert.AnError}

	var navErr error
	require.NotPanics(t, func() {
		g.NavigateTo(router, "/lab", NavigateOptions{
			OnError: func(err error) { navErr = err },
		})
	})
	require.Error(t, navErr)
}

func TestNavigateTo_FallbackFailureIsSwallowed(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{ReplaceErr: assert.AnError}

	require.NotPanics(t, func() {
		g.NavigateTo(router, "/no-such-page", NavigateOptions{})
	})
}

func TestNavigateToWorkspace(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	g.NavigateToWorkspace(router, "生产部", NavigateOptions{})
	require.Len(t, router.Replaces, 1)
	assert.Equal(t, "/production", router.Replaces[0])

	var navErr error
	g.NavigateToWorkspace(router, "仓库", NavigateOptions{
		OnError: func(err error) { navErr = err },
	})
	require.Error(t, navErr)
}

func TestGoBack(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	// No history: replace with fallback.
	g.GoBack(router, "/lab")
	assert.Equal(t, "/lab", router.Current())

	// With history: pop.
	require.NoError(t, router.Push("/shift-sample"))
	g.GoBack(router, "/lab")
	assert.Equal(t, "/lab", router.Current())

	// Empty fallback defaults to home.
	empty := &mocksauth.FakeRouter{}
	g.GoBack(empty, "")
	assert.Equal(t, registry.HomePath, empty.Current())
}

func TestPreload(t *testing.T) {
	g := newGateway()
	router := &mocksauth.FakeRouter{}

	g.Preload(router, "/lab")
	g.Preload(router, "/no-such-page")
	g.Preload(router, "/legacy-dashboard")

	assert.Equal(t, []string{"/lab"}, router.Prefetchs)
}

func TestBreadcrumbs(t *testing.T) {
	g := newGateway()

	crumbs := g.Breadcrumbs("/lab")
	require.Len(t, crumbs, 2)
	assert.Equal(t, "/", crumbs[0].Path)
	assert.Equal(t, "/lab", crumbs[1].Path)
	assert.Equal(t, "化验室工作台", crumbs[1].Title)

	crumbs = g.Breadcrumbs("/")
	require.Len(t, crumbs, 1)

	// Unknown path degrades to home only.
	crumbs = g.Breadcrumbs("/no-such-page")
	require.Len(t, crumbs, 1)
}

func TestBuildURL(t *testing.T) {
	url := BuildURL("/lab", map[string]string{"date": "2024-01-01", "type": "sample"})
	assert.Equal(t, "/lab?date=2024-01-01&type=sample", url)

	assert.Equal(t, "/lab", BuildURL("/lab", nil))
	assert.Equal(t, "/lab", BuildURL("/lab", map[string]string{}))
}

func TestParseQuery_RoundTrip(t *testing.T) {
	params := map[string]string{"date": "2024-01-01", "type": "sample"}
	url := BuildURL("/lab", params)

	assert.Equal(t, params, ParseQuery(url))
	assert.Equal(t, params, ParseQuery("date=2024-01-01&type=sample"))
}

func TestParseQuery_Malformed(t *testing.T) {
	assert.Empty(t, ParseQuery(""))
	assert.Empty(t, ParseQuery("/lab"))
	assert.Empty(t, ParseQuery("a=%zz"))
}
