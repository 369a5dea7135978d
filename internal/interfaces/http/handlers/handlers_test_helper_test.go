package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"hgigs.backend/internal/interfaces/http/middleware"
)

var (
	providerAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	clientAddr   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	ownerAddr    = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	usdcAddr     = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asCaller(addr common.Address) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerAddressKey, addr)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
