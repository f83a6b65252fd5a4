package apicontract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/warehouse/api-contract"
)

func TestLoad(t *testing.T) {
	t.Run("Should load a valid contract", func(t *testing.T) {
		doc, err := apicontract.Load(context.Background())
		require.NoError(t, err)

		for _, path := range []string{
			"/auth/login",
			"/auth/register",
			"/items",
			"/items/{id}",
			"/items/{id}/quantity",
			"/items/{id}/alerts",
			"/categories",
			"/categories/{id}",
			"/audit-logs",
		} {
			assert.NotNil(t, doc.Paths.Find(path), path)
		}
	})
}
