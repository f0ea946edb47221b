package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
	"github.com/JonMunkholm/masterdata/internal/logging"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// multipartMemory is the part of an upload kept in memory before spilling
// to temporary files.
const multipartMemory = 32 << 20

type ctxKeyEntity struct{}

// entityContext resolves {entity} against the registry.
func (s *Server) entityContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "entity")
		def, ok := s.registry.Get(key)
		if !ok {
			respondErrorStatus(w, r, fmt.Errorf("unknown entity %q", key), http.StatusNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyEntity{}, def)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func entityFrom(r *http.Request) core.EntityDefinition {
	def, _ := r.Context().Value(ctxKeyEntity{}).(core.EntityDefinition)
	return def
}

// actorFrom returns the user set by middleware.RequireActor.
func actorFrom(r *http.Request) uuid.UUID {
	actor, _ := core.ActorFromContext(r.Context())
	return actor
}

func parseID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, core.ValidationError{Field: "id", Value: raw, Message: "is not a valid uuid"}
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// entitiesResponse lists the registry for clients building navigation.
type entitiesResponse struct {
	Groups   []string          `json:"groups"`
	Entities []core.EntityInfo `json:"entities"`
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	defs := s.registry.All()
	resp := entitiesResponse{
		Groups:   s.registry.Groups(),
		Entities: make([]core.EntityInfo, len(defs)),
	}
	for i, def := range defs {
		resp.Entities[i] = def.Info
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := entityFrom(r).List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := entityFrom(r).Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	def := entityFrom(r)
	id, err := def.Create(r.Context(), body, actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/"+def.Info.Key+"/"+id.String())
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := entityFrom(r).Update(r.Context(), id, body, actorFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := entityFrom(r).Delete(r.Context(), id, actorFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// importResponse is the JSON body of a finished import.
type importResponse struct {
	core.ImportResult
	Total int `json:"total"`
}

// handleImport reconciles an uploaded CSV file (form field "file") into the
// entity. A leading header row matching the template is ignored.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	def := entityFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondErrorStatus(w, r, fmt.Errorf("file too large: limit is %d bytes", maxBytes.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		respondErrorStatus(w, r, fmt.Errorf("invalid multipart form: %w", err), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErrorStatus(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := core.ReadCSV(file)
	if err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}
	rows = core.DropHeader(rows, def.Info.Columns)
	if len(rows) == 0 {
		respondErrorStatus(w, r, errors.New("empty file: no data rows"), http.StatusBadRequest)
		return
	}
	if limit := s.cfg.Import.MaxRows; limit > 0 && len(rows) > limit {
		respondErrorStatus(w, r, fmt.Errorf("too many rows: %d exceeds limit of %d", len(rows), limit), http.StatusRequestEntityTooLarge)
		return
	}

	ctx := r.Context()
	if s.cfg.Import.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Import.Timeout)
		defer cancel()
	}

	logging.FromContext(ctx).Info("import file received",
		"entity", def.Info.Key, "file", header.Filename, "size", header.Size, "rows", len(rows))

	res, err := def.Import(ctx, rows, actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{ImportResult: res, Total: res.Total()})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	def := entityFrom(r)
	writeCSV(w, r, def.Info.Key+"_template.csv", def.Info.Columns, nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	def := entityFrom(r)
	records, err := def.Export(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeCSV(w, r, def.Info.Key+".csv", def.Info.Columns, records)
}

func writeCSV(w http.ResponseWriter, r *http.Request, filename string, header []string, records [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := core.WriteCSV(w, header, records); err != nil {
		logging.FromContext(r.Context()).Error("csv write error", "file", filename, "error", err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}
