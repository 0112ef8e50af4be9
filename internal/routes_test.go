package internal

import (
	"context"
	"lecturebot/internal/catalog"
	"lecturebot/internal/controllers"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
	"lecturebot/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) catalog.StoreInterface {
	t.Helper()
	store := catalog.NewStore(testutil.NewMockBackend(""), &testutil.MockLogger{}, testutil.NewMockMetrics())
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store
}

func TestInitRoutes_RegistersCatalogRoutes(t *testing.T) {
	cc := controllers.NewCatalogController(&testutil.MockLogger{}, newTestStore(t), testutil.NewMockCache())

	routes := InitRoutes(cc).GetRoutes()
	require.Len(t, routes, 2)
	urls := []string{routes[0].Url, routes[1].Url}
	assert.ElementsMatch(t, []string{"/catalog", "/stats"}, urls)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	cc := controllers.NewCatalogController(&testutil.MockLogger{}, newTestStore(t), testutil.NewMockCache())

	for _, route := range InitRoutes(cc).GetRoutes() {
		rr := httptest.NewRecorder()
		route.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route.Url, nil))
		assert.Equal(t, http.StatusOK, rr.Code, route.Url)

		rr = httptest.NewRecorder()
		route.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, route.Url, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, route.Url)
	}
}

func TestNewApp_Mux(t *testing.T) {
	store := newTestStore(t)
	conf := &structures.Config{
		AppName:   "lecturebot",
		WebServer: structures.Server{Enabled: true, Host: "127.0.0.1", Port: 8090},
	}
	metrics := testutil.NewMockMetrics()
	cc := controllers.NewCatalogController(&testutil.MockLogger{}, store, testutil.NewMockCache())

	app, err := NewApp(conf, &testutil.MockLogger{}, InitRoutes(cc), metrics, store, controllers.NewHealthController(store), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, app.WebServer)
	assert.Equal(t, "127.0.0.1:8090", app.WebServer.Addr)

	serve := func(path string) int {
		rr := httptest.NewRecorder()
		app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, serve("/health"))
	assert.Equal(t, http.StatusOK, serve("/catalog"))
	assert.Equal(t, http.StatusOK, serve("/stats"))
	assert.Equal(t, http.StatusNotFound, serve("/metrics"), "metrics disabled")
	assert.Equal(t, http.StatusNotFound, serve("/nope"))
}

func TestNewApp_WebServerDisabled(t *testing.T) {
	store := newTestStore(t)
	app, err := NewApp(&structures.Config{}, &testutil.MockLogger{}, providers.NewRouterProvider(), testutil.NewMockMetrics(), store, controllers.NewHealthController(store), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, app.WebServer)
}
