package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/propfi-txbuilder/internal/api/middleware"
	"github.com/feral-file/propfi-txbuilder/internal/api/server"
	"github.com/feral-file/propfi-txbuilder/internal/mocks"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)
	exec.
		EXPECT().
		Ready(gomock.Any()).
		Return(nil)

	router := server.NewRouter(server.Config{Auth: middleware.AuthConfig{}}, exec)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(middleware.REQUEST_ID_HEADER))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 0}, mocks.NewMockAPIExecutor(ctrl))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}
