package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxSchemaSize caps mock schema documents at 256 KB.
const maxSchemaSize = 256 << 10

// MockHandler serves ad-hoc mock data generation.
type MockHandler struct {
	resolver SchemaResolver
	log      *logrus.Logger
}

// NewMockHandler creates a MockHandler.
func NewMockHandler(resolver SchemaResolver, log *logrus.Logger) *MockHandler {
	return &MockHandler{resolver: resolver, log: log}
}

// Generate handles POST /api/v1/mock. The request body is a schema document;
// the response is generated data matching it.
func (h *MockHandler) Generate(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSchemaSize))
	if err != nil || len(raw) == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "request body must be a schema document")

		return
	}

	data, err := h.resolver.Resolve(json.RawMessage(raw))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	c.JSON(http.StatusOK, gin.H{"result": data})
}
