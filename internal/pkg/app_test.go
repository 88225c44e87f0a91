package pkg

import (
	"net/http"
	"net/http/httptest"
	"panel/internal/app/config"
	"panel/internal/app/handler"
	"panel/internal/app/manifest"
	"panel/internal/app/storage"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestSetup_CORSAndRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := storage.NewLocalStore(afero.NewMemMapFs(), "/data")
	h := handler.NewHandler(nil, store, manifest.New(store))
	app := NewApp(&config.Config{}, gin.New(), h)
	app.Setup()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://panel.local")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
