package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/JonMunkholm/masterdata/internal/config"
	"github.com/JonMunkholm/masterdata/internal/masterdata"
	"github.com/JonMunkholm/masterdata/internal/metrics"
	"github.com/JonMunkholm/masterdata/internal/store/memory"
	"github.com/JonMunkholm/masterdata/internal/web"
)

type ServerSuite struct {
	suite.Suite
	cfg     *config.Config
	svc     *masterdata.Services
	handler http.Handler
	actor   uuid.UUID
	healthy error
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.actor = uuid.New()
	s.healthy = nil
	s.cfg = &config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Minute},
		Import: config.ImportConfig{MaxFileSize: 1 << 20, MaxRows: 5, Timeout: time.Minute},
	}

	reg := prometheus.NewRegistry()
	s.svc = masterdata.NewServices(memory.NewStores(), masterdata.Options{Metrics: metrics.New(reg)})
	srv := web.NewServer(s.svc.Registry(), s.cfg, web.Options{
		Gatherer: reg,
		Health:   func(context.Context) error { return s.healthy },
	})
	s.handler = srv.Router()
}

func (s *ServerSuite) do(method, path string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) asActor() map[string]string {
	return map[string]string{"X-User-ID": s.actor.String(), "Content-Type": "application/json"}
}

func (s *ServerSuite) postJSON(path string, v any) *httptest.ResponseRecorder {
	body, err := json.Marshal(v)
	s.Require().NoError(err)
	return s.do(http.MethodPost, path, bytes.NewReader(body), s.asActor())
}

func (s *ServerSuite) createdID(rec *httptest.ResponseRecorder) uuid.UUID {
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func (s *ServerSuite) upload(path, csv string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(csv))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	return s.do(http.MethodPost, path, &buf, map[string]string{
		"X-User-ID":    s.actor.String(),
		"Content-Type": mw.FormDataContentType(),
	})
}

func (s *ServerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var out web.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out.Code
}

func (s *ServerSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", nil, nil)
	s.Equal(http.StatusOK, rec.Code)

	s.healthy = errors.New("db down")
	rec = s.do(http.MethodGet, "/healthz", nil, nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *ServerSuite) TestListEntities() {
	rec := s.do(http.MethodGet, "/api/entities", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var out struct {
		Groups   []string `json:"groups"`
		Entities []struct {
			Key     string   `json:"key"`
			Columns []string `json:"columns"`
		} `json:"entities"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Len(out.Entities, 7)
	s.ElementsMatch([]string{"Geography", "Parties", "Fleet"}, out.Groups)
}

func (s *ServerSuite) TestUnknownEntity() {
	rec := s.do(http.MethodGet, "/api/planets", nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("REC003", s.errorCode(rec))
}

func (s *ServerSuite) TestCountryCRUD() {
	id := s.createdID(s.postJSON("/api/countries", masterdata.CountryInput{CountryName: "Germany", CountryCode: "DE"}))

	s.Run("get", func() {
		rec := s.do(http.MethodGet, "/api/countries/"+id.String(), nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got masterdata.Country
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Equal("Germany", got.CountryName)
		s.Equal(s.actor, got.CreatedBy)
	})

	s.Run("duplicate code is a conflict", func() {
		rec := s.postJSON("/api/countries", masterdata.CountryInput{CountryName: "Deutschland", CountryCode: "de"})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("REC001", s.errorCode(rec))
	})

	s.Run("validation failure is a bad request", func() {
		rec := s.postJSON("/api/countries", masterdata.CountryInput{CountryCode: "XX"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed json is a bad request", func() {
		rec := s.do(http.MethodPost, "/api/countries", strings.NewReader("{"), s.asActor())
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("VAL002", s.errorCode(rec))
	})

	s.Run("update", func() {
		body, _ := json.Marshal(masterdata.CountryInput{CountryName: "Deutschland", CountryCode: "DE"})
		rec := s.do(http.MethodPut, "/api/countries/"+id.String(), bytes.NewReader(body), s.asActor())
		s.Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	})

	s.Run("list", func() {
		rec := s.do(http.MethodGet, "/api/countries", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var items []masterdata.CountryListItem
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &items))
		s.Require().Len(items, 1)
		s.Equal("Deutschland", items[0].CountryName)
	})

	s.Run("delete then not found", func() {
		rec := s.do(http.MethodDelete, "/api/countries/"+id.String(), nil, s.asActor())
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/countries/"+id.String(), nil, nil)
		s.Equal(http.StatusNotFound, rec.Code)

		rec = s.do(http.MethodDelete, "/api/countries/"+id.String(), nil, s.asActor())
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ServerSuite) TestBadID() {
	rec := s.do(http.MethodGet, "/api/ports/not-a-uuid", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestMutationsRequireActor() {
	body, _ := json.Marshal(masterdata.CountryInput{CountryName: "Germany"})
	rec := s.do(http.MethodPost, "/api/countries", bytes.NewReader(body), nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodDelete, "/api/countries/"+uuid.NewString(), nil, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerSuite) TestImport() {
	s.Run("header row is dropped", func() {
		rec := s.upload("/api/countries/import", "Country Name,Country Code\nGermany,DE\nGermany,DE\n,\n")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var out struct {
			Added   int `json:"added"`
			Updated int `json:"updated"`
			Skipped int `json:"skipped"`
			Total   int `json:"total"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
		s.Equal(1, out.Added)
		s.Equal(1, out.Updated)
		s.Equal(1, out.Skipped)
		s.Equal(3, out.Total)
	})

	s.Run("unresolved reference is skipped", func() {
		rec := s.upload("/api/ports/import", "Port Code,Full Name,Country Code,Region Code\nDEHAM,Hamburg,DE,\nNLRTM,Rotterdam,NL,\n")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Contains(rec.Body.String(), `\"NL\" not found`)
	})

	s.Run("header only is empty", func() {
		rec := s.upload("/api/countries/import", "Country Name,Country Code\n")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("FILE004", s.errorCode(rec))
	})

	s.Run("row limit", func() {
		rec := s.upload("/api/countries/import", "A,A\nB,B\nC,C\nD,D\nE,E\nF,F\n")
		s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
		s.Equal("FILE001", s.errorCode(rec))
	})

	s.Run("missing file", func() {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		s.Require().NoError(mw.WriteField("other", "x"))
		s.Require().NoError(mw.Close())
		rec := s.do(http.MethodPost, "/api/countries/import", &buf, map[string]string{
			"X-User-ID":    s.actor.String(),
			"Content-Type": mw.FormDataContentType(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("FILE003", s.errorCode(rec))
	})

	s.Run("oversized upload is rejected", func() {
		s.cfg.Import.MaxFileSize = 64
		defer func() { s.cfg.Import.MaxFileSize = 1 << 20 }()
		rec := s.upload("/api/countries/import", strings.Repeat("Germany,DE\n", 20))
		s.GreaterOrEqual(rec.Code, http.StatusBadRequest)
	})
}

func (s *ServerSuite) TestTemplateAndExport() {
	rec := s.do(http.MethodGet, "/api/vessels/template", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	s.Equal("Vessel Name,Vessel Code,IMO,TEUs,NRT,GRT,Flag,Speed,Build Year\n", rec.Body.String())

	s.createdID(s.postJSON("/api/countries", masterdata.CountryInput{CountryName: "Germany", CountryCode: "DE"}))
	rec = s.do(http.MethodGet, "/api/countries/export", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Country Name,Country Code\nGermany,DE\n", rec.Body.String())
	s.Contains(rec.Header().Get("Content-Disposition"), "countries.csv")
}

func (s *ServerSuite) TestMetricsEndpoint() {
	s.createdID(s.postJSON("/api/countries", masterdata.CountryInput{CountryName: "Germany", CountryCode: "DE"}))

	rec := s.do(http.MethodGet, "/metrics", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "masterdata_mutations_total")
}

func (s *ServerSuite) TestAPIKeyRequired() {
	s.cfg.Security = config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	srv := web.NewServer(s.svc.Registry(), s.cfg, web.Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
}
