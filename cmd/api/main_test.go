package main

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El middleware de swagger entra en pánico al registrarse si el archivo
// estático no existe: el binario debe enviarse junto con docs/swagger.json.
func TestDocsSwaggerJSON_ExisteYEsValido(t *testing.T) {
	raw, err := os.ReadFile("../../docs/swagger.json")
	require.NoError(t, err, "docs/swagger.json debe estar versionado junto al binario")

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2.0", doc.Swagger)

	// las rutas registradas en el router deben estar documentadas
	for _, ruta := range []string{
		"/health",
		"/api/products",
		"/api/products/{id}",
		"/api/sessions",
		"/api/sessions/{id}",
		"/api/sessions/{id}/lines",
		"/api/sessions/{id}/lines/{productId}",
		"/api/sessions/{id}/discount",
		"/api/sessions/{id}/customer",
		"/api/sessions/{id}/checkout",
		"/api/sessions/{id}/validate",
		"/api/sessions/{id}/commit",
		"/api/sessions/{id}/reset",
		"/api/sales/{id}",
		"/api/sales/{id}/receipt",
	} {
		assert.Contains(t, doc.Paths, ruta)
	}
}
