package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/application"
	"github.com/Barbearia-Digital/service-booking/internal/auth"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/kafka"
	"github.com/Barbearia-Digital/service-booking/internal/repository/memory"
	"github.com/Barbearia-Digital/service-booking/internal/saga"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	admin  string
	client string
	other  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	catalogRepo := memory.NewServiceRepository()
	voucherRepo := memory.NewVoucherRepository()
	apptRepo := memory.NewAppointmentRepository()
	bus := kafka.NewLocalBus(logger)

	svc, err := catalog.NewService("Degradê", "Máquina e tesoura", 4550)
	require.NoError(t, err)
	require.NoError(t, catalogRepo.Save(context.Background(), svc))

	catalogSvc := application.NewCatalogService(catalogRepo, logger)
	voucherSvc := application.NewVoucherService(voucherRepo, time.UTC, logger)
	sagaSvc := saga.NewBookingSagaService(apptRepo, voucherRepo, bus, logger)
	apptSvc := application.NewAppointmentService(apptRepo, catalogRepo, voucherSvc, sagaSvc, bus, logger)
	reportSvc := application.NewReportService(apptRepo, logger)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	r := gin.New()
	api := r.Group("/api")
	NewCatalogHandler(catalogSvc).RegisterRoutes(api, jwtManager)
	NewVoucherHandler(voucherSvc).RegisterRoutes(api, jwtManager)
	NewAppointmentHandler(apptSvc).RegisterRoutes(api, jwtManager)
	NewAdminHandler(reportSvc).RegisterRoutes(api, jwtManager)

	ts := &testServer{router: r}
	ts.admin, err = jwtManager.Generate("root", auth.RoleAdmin)
	require.NoError(t, err)
	ts.client, err = jwtManager.Generate("ana", auth.RoleClient)
	require.NoError(t, err)
	ts.other, err = jwtManager.Generate("bia", auth.RoleClient)
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func booking(voucher any) map[string]any {
	return map[string]any{
		"nome_cliente": "Ana",
		"tipo_corte":   "Degradê",
		"data":         "2030-06-10",
		"horario":      "14:30",
		"pagamento":    "pix",
		"voucher":      voucher,
	}
}

func TestCatalogRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/cortes/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Degradê", list[0]["nome"])
	assert.Equal(t, 45.5, list[0]["preco"])

	corte := map[string]any{"nome": "Barba", "preco": 30}
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/cortes/", "", corte).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/cortes/", ts.client, corte).Code)
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/cortes/", ts.admin, corte).Code)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/cortes/", ts.admin, map[string]any{"nome": "barba", "preco": 10}).Code)
}

func TestVoucherRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/vouchers/", ts.admin, map[string]any{"codigo": "PROMO10", "porcentagem": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["dados"].(map[string]any)
	id := int64(created["id"].(float64))

	w = ts.do(t, http.MethodPost, "/api/vouchers/", ts.admin, map[string]any{"codigo": "ANA50", "porcentagem": 50, "usuario": "ana"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("validate", func(t *testing.T) {
		body := decode(t, ts.do(t, http.MethodPost, "/api/vouchers/validar", "", map[string]any{"codigo": "PROMO10"}))
		assert.Equal(t, true, body["valido"])
		assert.Equal(t, 10.0, body["voucher"].(map[string]any)["porcentagem"])

		body = decode(t, ts.do(t, http.MethodPost, "/api/vouchers/validar", ts.other, map[string]any{"codigo": "ANA50"}))
		assert.Equal(t, false, body["valido"])
		assert.NotEmpty(t, body["erro"])

		body = decode(t, ts.do(t, http.MethodPost, "/api/vouchers/validar", "", map[string]any{"codigo": "NOPE"}))
		assert.Equal(t, false, body["valido"])
	})

	t.Run("listing", func(t *testing.T) {
		var list []map[string]any
		w := ts.do(t, http.MethodGet, "/api/vouchers/", "", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1, "anonymous callers see public vouchers")

		w = ts.do(t, http.MethodGet, "/api/vouchers/", ts.admin, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2)

		w = ts.do(t, http.MethodGet, "/api/vouchers/meus-vouchers", ts.client, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2)

		assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/vouchers/meus-vouchers", "", nil).Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		path := "/api/vouchers/" + jsonID(id)
		w := ts.do(t, http.MethodPut, path, ts.admin, map[string]any{"codigo": "PROMO10", "porcentagem": 15})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 15.0, decode(t, w)["dados"].(map[string]any)["porcentagem"])

		assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, path, ts.client, nil).Code)
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodDelete, "/api/vouchers/abc", ts.admin, nil).Code)

		w = ts.do(t, http.MethodDelete, path, ts.admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Voucher removido com sucesso", decode(t, w)["mensagem"])
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, ts.admin, nil).Code)
	})

	t.Run("use", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/vouchers/usar", ts.client, map[string]any{"codigo": "ANA50"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decode(t, w)["sucesso"])

		w = ts.do(t, http.MethodPost, "/api/vouchers/usar", ts.client, map[string]any{"codigo": "ANA50"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode(t, w)["erro"])
	})
}

func TestAppointmentRoutes(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		ts.do(t, http.MethodPost, "/api/vouchers/", ts.admin, map[string]any{"codigo": "PROMO10", "porcentagem": 10}).Code)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/agendamentos/", "", booking(nil)).Code)

	w := ts.do(t, http.MethodPost, "/api/agendamentos/", ts.client, map[string]any{"nome_cliente": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["erro"])
	assert.Equal(t, 400.0, body["codigo"])

	w = ts.do(t, http.MethodPost, "/api/agendamentos/", ts.client, booking("PROMO10"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, true, body["sucesso"])
	dados := body["dados"].(map[string]any)
	assert.Equal(t, 45.5, dados["valor_corte"])
	assert.Equal(t, 4.55, dados["desconto_voucher"])
	assert.Equal(t, 40.95, dados["valor_final"])
	id := int64(dados["id"].(float64))

	w = ts.do(t, http.MethodPost, "/api/agendamentos/", ts.client, booking(nil))
	assert.Equal(t, http.StatusConflict, w.Code, "same client, date and slot")

	var list []map[string]any
	w = ts.do(t, http.MethodGet, "/api/agendamentos/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	path := "/api/agendamentos/" + jsonID(id)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPut, path, ts.client, map[string]any{"horario": "15:00"}).Code)

	w = ts.do(t, http.MethodPut, path, ts.admin, map[string]any{"horario": "15:00", "voucher": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dados = decode(t, w)["dados"].(map[string]any)
	assert.Equal(t, "15:00", dados["horario"])
	assert.Nil(t, dados["voucher"])
	assert.Equal(t, 45.5, dados["valor_final"])

	w = ts.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "15:00", decode(t, w)["horario"])

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, path, ts.client, nil).Code)
	w = ts.do(t, http.MethodDelete, path, ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Agendamento removido com sucesso", decode(t, w)["mensagem"])
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, ts.admin, nil).Code)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/agendamentos/", ts.client, booking(nil)).Code)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/api/admin/relatorio", ts.client, nil).Code)

	w := ts.do(t, http.MethodGet, "/api/admin/relatorio", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 1.0, body["total_agendamentos"])
	assert.Equal(t, 45.5, body["faturamento"])

	w = ts.do(t, http.MethodGet, "/api/admin/relatorio.xlsx", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	wb, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Agendamentos")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
