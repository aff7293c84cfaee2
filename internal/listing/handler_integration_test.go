package listing_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/listing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testRoleHeader = "X-Test-Role"

// IntegrationTestSuite drives the plot endpoints through a real gin engine
// backed by an in-memory sqlite store.
type IntegrationTestSuite struct {
	suite.Suite
	DB      *gorm.DB
	Router  *gin.Engine
	Service listing.Service
}

// stubAuth stands in for the token middleware: the role comes from a header.
func stubAuth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(testRoleHeader)
		if role == "" {
			if required {
				common.RespondWithError(c, common.ErrUnauthorized)
				return
			}
			c.Next()
			return
		}
		c.Set(common.UserIDKey, uuid.New())
		c.Set(common.UserRoleKey, role)
		c.Next()
	}
}

func stubAdmin(c *gin.Context) {
	if !common.IsAdmin(c) {
		common.RespondWithError(c, common.ErrForbidden)
		return
	}
	c.Next()
}

func (s *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	binding.Validator = common.DefaultValidator

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&listing.Listing{}))
	s.DB = db

	s.Service = listing.NewService(listing.NewGORMRepository(db), listing.NoopIndexer{}, zap.NewNop())
	handler := listing.NewHandler(s.Service, zap.NewNop())

	s.Router = gin.New()
	handler.RegisterRoutes(s.Router.Group("/api/v1"), stubAuth(false), stubAuth(true), stubAdmin)
}

func (s *IntegrationTestSuite) TearDownTest() {
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type envelope struct {
	Status  string            `json:"status"`
	Data    json.RawMessage   `json:"data"`
	Meta    common.Pagination `json:"meta"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func (s *IntegrationTestSuite) do(method, path, role string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(testRoleHeader, role)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *IntegrationTestSuite) createPlot(title string, price interface{}) listing.Listing {
	w, env := s.do(http.MethodPost, "/api/v1/plots", common.RoleUser, map[string]interface{}{
		"title":       title,
		"description": "Flat land with road access",
		"plotSize":    map[string]interface{}{"value": "12", "unit": "cent"},
		"price":       price,
		"category":    "Residential",
		"location":    map[string]string{"city": "Kochi"},
		"images":      []map[string]string{{"url": "https://cdn.example/1.jpg"}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var l listing.Listing
	s.Require().NoError(json.Unmarshal(env.Data, &l))
	return l
}

func (s *IntegrationTestSuite) approve(id uuid.UUID) {
	w, _ := s.do(http.MethodPatch, "/api/v1/plots/"+id.String()+"/approve", common.RoleAdmin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *IntegrationTestSuite) TestCreate_RequiresAuth() {
	w, _ := s.do(http.MethodPost, "/api/v1/plots", "", map[string]string{"title": "x"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *IntegrationTestSuite) TestCreate_AcceptsNumericStrings() {
	l := s.createPlot("Green Valley Plot", "500000")
	s.Equal("green-valley-plot", l.Slug)
	s.Equal(float64(500000), l.Price)
	s.Equal(float64(12), l.PlotSize.Value)
	s.Equal(listing.UnitCent, l.PlotSize.Unit)
	s.False(l.Approved)
	s.Equal(listing.StatusAvailable, l.Status)
}

func (s *IntegrationTestSuite) TestCreate_SameTitleGetsDistinctSlug() {
	first := s.createPlot("Green Valley Plot", 100)
	second := s.createPlot("Green Valley Plot", 100)
	s.Equal("green-valley-plot", first.Slug)
	s.NotEqual(first.Slug, second.Slug)
	s.Contains(second.Slug, "green-valley-plot-")
}

func (s *IntegrationTestSuite) TestCreate_ValidationErrors() {
	w, env := s.do(http.MethodPost, "/api/v1/plots", common.RoleUser, map[string]interface{}{
		"title":       " ",
		"description": "d",
		"plotSize":    map[string]interface{}{"value": 10, "unit": "acre"},
		"price":       10,
		"category":    "Residential",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", env.Code)
	s.Contains(env.Details, "title")
	s.Contains(env.Details, "plotSize.unit")

	w, env = s.do(http.MethodPost, "/api/v1/plots", common.RoleUser, map[string]interface{}{
		"title":       "t",
		"description": "d",
		"plotSize":    map[string]interface{}{"value": 10},
		"price":       "lots",
		"category":    "Residential",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(env.Details, "price")
}

func (s *IntegrationTestSuite) TestGet_ByIDAndSlug() {
	l := s.createPlot("Lake View", 10)

	w, byID := s.do(http.MethodGet, "/api/v1/plots/"+l.ID.String(), "", nil)
	s.Equal(http.StatusOK, w.Code)
	w, bySlug := s.do(http.MethodGet, "/api/v1/plots/lake-view", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(string(byID.Data), string(bySlug.Data))

	w, env := s.do(http.MethodGet, "/api/v1/plots/nope", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", env.Code)
}

func (s *IntegrationTestSuite) TestBrowse_PublicSeesOnlyApproved() {
	approved := s.createPlot("Approved One", 10)
	s.createPlot("Pending One", 10)
	s.approve(approved.ID)

	w, env := s.do(http.MethodGet, "/api/v1/plots?approved=false", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var items []listing.Listing
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Require().Len(items, 1)
	s.Equal(approved.ID, items[0].ID)

	_, env = s.do(http.MethodGet, "/api/v1/plots", common.RoleAdmin, nil)
	s.Equal(int64(2), env.Meta.Total, "admins see every plot when no filter is given")

	_, env = s.do(http.MethodGet, "/api/v1/plots?approved=false", common.RoleAdmin, nil)
	s.Equal(int64(1), env.Meta.Total)
}

func (s *IntegrationTestSuite) TestBrowse_PaginationAndPriceFilter() {
	ctx := context.Background()
	for i := 0; i < 45; i++ {
		l, err := s.Service.CreateListing(ctx, listing.CreateListingRequest{
			Title:       fmt.Sprintf("Plot %d", i),
			Description: "d",
			PlotSize:    listing.PlotSizeInput{Value: numPtr(1)},
			Price:       numPtr(500000),
			Category:    "Commercial",
		})
		s.Require().NoError(err)
		_, err = s.Service.ApproveListing(ctx, l.ID)
		s.Require().NoError(err)
	}

	_, env := s.do(http.MethodGet, "/api/v1/plots?limit=20&page=1", "", nil)
	var items []listing.Listing
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Len(items, 20)
	s.Equal(3, env.Meta.TotalPages)

	_, env = s.do(http.MethodGet, "/api/v1/plots?limit=20&page=3", "", nil)
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Len(items, 5)

	_, env = s.do(http.MethodGet, "/api/v1/plots?minPrice=400000&maxPrice=600000", "", nil)
	s.Equal(int64(45), env.Meta.Total)
	_, env = s.do(http.MethodGet, "/api/v1/plots?maxPrice=450000", "", nil)
	s.Equal(int64(0), env.Meta.Total)

	w, env := s.do(http.MethodGet, "/api/v1/plots?status=Gone", "", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(env.Details, "status")
}

func (s *IntegrationTestSuite) TestUpdate_AdminOnlyAndAtomic() {
	l := s.createPlot("Hill Top", 10)
	path := "/api/v1/plots/" + l.ID.String()

	w, _ := s.do(http.MethodPatch, path, common.RoleUser, map[string]string{"title": "x"})
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPatch, path, common.RoleAdmin, map[string]interface{}{
		"title":    "Changed",
		"plotSize": map[string]interface{}{"value": "20", "unit": "hectare"},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	stored, err := s.Service.GetListing(context.Background(), l.ID.String())
	s.Require().NoError(err)
	s.Equal("Hill Top", stored.Title, "a rejected patch leaves the plot untouched")
	s.Equal(listing.UnitCent, stored.PlotSize.Unit)

	w, env := s.do(http.MethodPatch, path, common.RoleAdmin, map[string]interface{}{
		"price":    "750000",
		"approved": true,
		"slug":     "hijack",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var updated listing.Listing
	s.Require().NoError(json.Unmarshal(env.Data, &updated))
	s.Equal(float64(750000), updated.Price)
	s.False(updated.Approved, "approval is not patchable")
	s.Equal("hill-top", updated.Slug)
}

func (s *IntegrationTestSuite) TestApprove_Idempotent() {
	l := s.createPlot("Sunrise", 10)
	path := "/api/v1/plots/" + l.ID.String() + "/approve"

	w, first := s.do(http.MethodPatch, path, common.RoleAdmin, nil)
	s.Equal(http.StatusOK, w.Code)
	w, second := s.do(http.MethodPatch, path, common.RoleAdmin, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(string(first.Data), string(second.Data))

	w, _ = s.do(http.MethodPatch, "/api/v1/plots/"+uuid.NewString()+"/approve", common.RoleAdmin, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *IntegrationTestSuite) TestDelete() {
	l := s.createPlot("Riverside", 10)
	path := "/api/v1/plots/" + l.ID.String()

	w, env := s.do(http.MethodDelete, path, common.RoleAdmin, nil)
	s.Equal(http.StatusOK, w.Code)
	var deleted listing.Listing
	s.Require().NoError(json.Unmarshal(env.Data, &deleted))
	s.Equal(l.ID, deleted.ID)

	w, _ = s.do(http.MethodGet, path, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, path, common.RoleAdmin, nil)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/v1/plots/not-a-uuid", common.RoleAdmin, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func numPtr(v float64) *common.Number {
	n := common.Number(v)
	return &n
}

func TestListingIntegration(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
