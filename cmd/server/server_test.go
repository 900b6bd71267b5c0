package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = "Statement Date : 28 Jul 2025\n" +
	"17 Jul 18 Jul CHEERS - PARKLANE S SINGAPORE SG\n" +
	"Transaction Ref 74508985217021376353487\n" +
	"10.00\n"

func newTestApp() *fiber.App {
	log := &logging.MockLogger{}
	classifier := classify.New(log)
	pipe := pipeline.New(classifier, pipeline.Options{Currency: "SGD", Holder: "me"}, log)
	return New(pipe, classifier, log)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	resp, body := doJSON(t, newTestApp(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func TestParsePlainTextBody(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/parse", bytes.NewReader([]byte(statementText)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result pipeline.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "CHEERS - PARKLANE S", result.Transactions[0].Merchant)
}

func TestParseRejectsEmptyBody(t *testing.T) {
	resp, _ := doJSON(t, newTestApp(), http.MethodPost, "/parse", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportDeleteRestoreFlow(t *testing.T) {
	app := newTestApp()

	_, body := doJSON(t, app, http.MethodPost, "/import", map[string]string{"text": statementText})
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(body, &result))
	require.Len(t, result.Transactions, 1)
	id := result.Transactions[0].ID

	resp, _ := doJSON(t, app, http.MethodDelete, "/transactions/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Repeated delete stays a no-op success.
	resp, _ = doJSON(t, app, http.MethodDelete, "/transactions/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = doJSON(t, app, http.MethodGet, "/transactions", nil)
	var active []models.Transaction
	require.NoError(t, json.Unmarshal(body, &active))
	assert.Empty(t, active)

	resp, _ = doJSON(t, app, http.MethodPost, "/transactions/"+id+"/restore", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = doJSON(t, app, http.MethodGet, "/transactions", nil)
	require.NoError(t, json.Unmarshal(body, &active))
	assert.Len(t, active, 1)
}

func TestImportRawTransactionsCategorizes(t *testing.T) {
	app := newTestApp()

	resp, _ := doJSON(t, app, http.MethodPost, "/transactions", []map[string]any{
		{"id": "tx-1", "merchant": "FAIRPRICE FINEST", "amount": "42.10", "currency": "SGD"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := doJSON(t, app, http.MethodGet, "/transactions", nil)
	var active []models.Transaction
	require.NoError(t, json.Unmarshal(body, &active))
	require.Len(t, active, 1)
	assert.Equal(t, models.CategoryGroceries, active[0].Category)
}

func TestImportRawTransactionsRejectsGarbage(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetSplitsValidation(t *testing.T) {
	app := newTestApp()

	_, body := doJSON(t, app, http.MethodPost, "/import", map[string]string{"text": statementText})
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(body, &result))
	id := result.Transactions[0].ID

	resp, _ := doJSON(t, app, http.MethodPut, "/transactions/"+id+"/splits", map[string]any{
		"paidBy": "A",
		"splits": []map[string]any{{"name": "A", "amount": "3.00"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/transactions/"+id+"/splits", map[string]any{
		"paidBy": "A",
		"splits": []map[string]any{
			{"name": "A", "amount": "5.00"},
			{"name": "B", "amount": "5.00"},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/balances", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "\"A\":\"5.00\"")
	assert.Contains(t, string(body), "\"B\":\"-5.00\"")
}

func TestUnknownTransactionIs404(t *testing.T) {
	resp, _ := doJSON(t, newTestApp(), http.MethodDelete, "/transactions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
