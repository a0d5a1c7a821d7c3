package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/astrovows/starlight-backend/internal/catalog"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/services"
)

const starsFixture = "id,proper,ra,dec,dist,mag,absmag,spect,var,x,y,z\n" +
	"1,Vega,18.6156,38.7836,7.68,0.03,0.58,A0Va,,0,0,0\n" +
	"2,Altair,19.8464,8.8683,5.13,0.77,2.2,A7V,,0,0,0\n" +
	"3,,6.7525,-16.7161,2.64,-1.44,1.45,A1V,,0,0,0\n"

type staticFetcher struct{ payload []byte }

func (f staticFetcher) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.payload)), nil
}

func starRouter(t *testing.T, load bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	loader := catalog.NewLoader(staticFetcher{payload: []byte(starsFixture)}, time.Second, logger.NewNop())
	svc := services.NewCatalogService(loader, "test://catalog", true, time.Hour, logger.NewNop())
	if load {
		if _, err := svc.Load(context.Background()); err != nil {
			t.Fatalf("load catalog: %v", err)
		}
	}
	h := NewStarHandler(svc, logger.NewNop())
	r := gin.New()
	r.GET("/api/stars", h.ListStars)
	r.GET("/api/stars/:id", h.GetStar)
	return r
}

func TestGetStarReturnsViewWithCoordText(t *testing.T) {
	r := starRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view StarView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ProperName != "Vega" {
		t.Fatalf("unexpected star: %+v", view)
	}
	if view.CoordText != "18h 36m 56.2s +38° 47′ 01″" {
		t.Fatalf("unexpected coord text: %q", view.CoordText)
	}
	if view.Color != "#cad7ff" {
		t.Fatalf("unexpected color for A-class star: %q", view.Color)
	}
}

func TestGetStarBeforeCatalogLoads(t *testing.T) {
	r := starRouter(t, false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars/1", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestGetStarNotFound(t *testing.T) {
	r := starRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars/404", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListStarsByName(t *testing.T) {
	r := starRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars?name=alta", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Total int        `json:"total"`
		Stars []StarView `json:"stars"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 3 {
		t.Fatalf("expected total 3, got %d", body.Total)
	}
	if len(body.Stars) != 1 || body.Stars[0].ProperName != "Altair" {
		t.Fatalf("unexpected stars: %+v", body.Stars)
	}
}

func TestListStarsByMagnitudeRange(t *testing.T) {
	r := starRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars?min_mag=0&max_mag=1", nil))
	var body struct {
		Stars []StarView `json:"stars"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Stars) != 2 || body.Stars[0].ID != 1 || body.Stars[1].ID != 2 {
		t.Fatalf("unexpected stars: %+v", body.Stars)
	}
}

func TestListStarsRequiresAQueryShape(t *testing.T) {
	r := starRouter(t, true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stars", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
