package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

const maxUploadMemory = 32 << 20 // 32 MiB in memory, rest spills to disk

// Multipart file fields, read in this fixed order so asset assembly is
// deterministic across kinds.
var uploadFieldOrder = []string{
	mediacontent.FieldImage,
	mediacontent.FieldImages,
	mediacontent.FieldVideo,
	mediacontent.FieldThumbnail,
}

var pluralKind = map[mediacontent.ContentKind]string{
	mediacontent.KindPhoto: "photos",
	mediacontent.KindVideo: "videos",
	mediacontent.KindPress: "press",
}

// RecordsHandler handles HTTP requests for one content kind's records.
type RecordsHandler struct {
	service mediacontent.Service
	kind    mediacontent.ContentKind
}

// NewRecordsHandler creates a records handler scoped to a content kind.
func NewRecordsHandler(service mediacontent.Service, kind mediacontent.ContentKind) *RecordsHandler {
	return &RecordsHandler{service: service, kind: kind}
}

// AssetPayload mirrors mediacontent.MediaAsset on the wire.
type AssetPayload struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text,omitempty"`
	RemoteRef string `json:"remote_ref"`
}

// ImportRequest is the JSON body for create-with-existing-references.
type ImportRequest struct {
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Date        string         `json:"date,omitempty"`
	Description string         `json:"description,omitempty"`
	ExternalURL string         `json:"external_url,omitempty"`
	Assets      []AssetPayload `json:"assets"`
}

// UpdateRequest is the JSON body for a partial record update. Absent fields
// stay unchanged; a non-null assets array replaces the whole asset list.
type UpdateRequest struct {
	Title       *string        `json:"title,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Date        *string        `json:"date,omitempty"`
	Description *string        `json:"description,omitempty"`
	ExternalURL *string        `json:"external_url,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	Assets      []AssetPayload `json:"assets,omitempty"`
}

// CreateWithUpload creates a record from a multipart payload.
func (h *RecordsHandler) CreateWithUpload(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondBadRequest(w, r, "invalid multipart payload")
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")
	if title == "" || category == "" {
		respondBadRequest(w, r, "title and category are required")
		return
	}

	date, ok := parseDate(r.FormValue("date"))
	if !ok {
		respondBadRequest(w, r, "invalid date")
		return
	}

	blobs, closers, err := collectBlobs(r.MultipartForm)
	if err != nil {
		respondBadRequest(w, r, "failed to read uploaded files")
		return
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	record, err := h.service.CreateWithUpload(ctx, mediacontent.CreateUploadRequest{
		Kind:          h.kind,
		Title:         title,
		CategoryToken: mediacontent.ParseCategoryToken(category),
		Date:          date,
		Description:   r.FormValue("description"),
		ExternalURL:   r.FormValue("external_url"),
		Blobs:         blobs,
	})
	if err != nil {
		slog.Error("Failed to create record", "kind", h.kind, "error", err)
		respondError(w, r, err, "failed to create record")
		return
	}

	respondData(w, r, http.StatusCreated, string(h.kind), record)
}

// CreateFromAssets creates a record from pre-existing asset references.
func (h *RecordsHandler) CreateFromAssets(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}
	if req.Title == "" || req.Category == "" {
		respondBadRequest(w, r, "title and category are required")
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		respondBadRequest(w, r, "invalid date")
		return
	}

	record, err := h.service.CreateFromAssets(ctx, mediacontent.CreateAssetsRequest{
		Kind:          h.kind,
		Title:         req.Title,
		CategoryToken: mediacontent.ParseCategoryToken(req.Category),
		Date:          date,
		Description:   req.Description,
		ExternalURL:   req.ExternalURL,
		Assets:        toAssets(req.Assets),
	})
	if err != nil {
		slog.Error("Failed to import record", "kind", h.kind, "error", err)
		respondError(w, r, err, "failed to import record")
		return
	}

	respondData(w, r, http.StatusCreated, string(h.kind), record)
}

// Get retrieves a record by ID.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid record ID")
		return
	}

	record, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "failed to get record")
		return
	}
	if record.Kind != h.kind {
		respondError(w, r, mediacontent.ErrRecordNotFound, "failed to get record")
		return
	}

	respondData(w, r, http.StatusOK, string(h.kind), record)
}

// List lists records of this kind with optional filters.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := mediacontent.ListFilters{
		Kind:       h.kind,
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(w, r, "invalid category_id")
			return
		}
		filters.CategoryID = &id
	}
	filters.Limit = queryInt(r, "limit", 50)
	filters.Offset = queryInt(r, "offset", 0)

	records, err := h.service.ListRecords(r.Context(), filters)
	if err != nil {
		slog.Error("Failed to list records", "kind", h.kind, "error", err)
		respondError(w, r, err, "failed to list records")
		return
	}
	if records == nil {
		records = []*mediacontent.Record{}
	}

	respondData(w, r, http.StatusOK, pluralKind[h.kind], records)
}

// Update applies a partial update to a record.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid record ID")
		return
	}

	if err := h.ownsRecord(ctx, id); err != nil {
		respondError(w, r, err, "failed to update record")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	update := mediacontent.UpdateRecordRequest{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		IsActive:    req.IsActive,
	}
	if req.Category != nil {
		token := mediacontent.ParseCategoryToken(*req.Category)
		update.CategoryToken = &token
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			respondBadRequest(w, r, "invalid date")
			return
		}
		update.Date = &date
	}
	if req.Assets != nil {
		update.ReplaceAssets = toAssets(req.Assets)
	}

	record, err := h.service.UpdateRecord(ctx, update)
	if err != nil {
		slog.Error("Failed to update record", "kind", h.kind, "record_id", id, "error", err)
		respondError(w, r, err, "failed to update record")
		return
	}

	respondData(w, r, http.StatusOK, string(h.kind), record)
}

// Delete removes a record and its remote blobs.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid record ID")
		return
	}

	if err := h.ownsRecord(ctx, id); err != nil {
		respondError(w, r, err, "failed to delete record")
		return
	}

	if err := h.service.DeleteRecord(ctx, id); err != nil {
		slog.Error("Failed to delete record", "kind", h.kind, "record_id", id, "error", err)
		respondError(w, r, err, "failed to delete record")
		return
	}

	respondMessage(w, r, http.StatusOK, "record deleted")
}

// ownsRecord checks that the record exists and belongs to this handler's
// kind. A record of another kind is not-found on this route, so mutating
// /photos/{id} can never touch a press record.
func (h *RecordsHandler) ownsRecord(ctx context.Context, id uuid.UUID) error {
	record, err := h.service.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	if record.Kind != h.kind {
		return mediacontent.ErrRecordNotFound
	}
	return nil
}

// collectBlobs reads all file fields from the multipart form in a fixed field
// order and pairs them with alt texts by position.
func collectBlobs(form *multipart.Form) ([]mediacontent.BlobUpload, []multipart.File, error) {
	var blobs []mediacontent.BlobUpload
	var closers []multipart.File

	altTexts := form.Value["alt_text"]
	for _, field := range uploadFieldOrder {
		for _, header := range form.File[field] {
			file, err := header.Open()
			if err != nil {
				for _, c := range closers {
					c.Close()
				}
				return nil, nil, err
			}
			closers = append(closers, file)
			blob := mediacontent.BlobUpload{
				Field:       field,
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        file,
			}
			if len(blobs) < len(altTexts) {
				blob.AltText = altTexts[len(blobs)]
			}
			blobs = append(blobs, blob)
		}
	}
	// Unknown file fields still reach the policy so it can reject them.
	for field, headers := range form.File {
		if knownField(field) {
			continue
		}
		for _, header := range headers {
			blobs = append(blobs, mediacontent.BlobUpload{
				Field:       field,
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
			})
		}
	}
	return blobs, closers, nil
}

func knownField(field string) bool {
	for _, f := range uploadFieldOrder {
		if f == field {
			return true
		}
	}
	return false
}

func toAssets(payload []AssetPayload) []mediacontent.MediaAsset {
	assets := make([]mediacontent.MediaAsset, len(payload))
	for i, a := range payload {
		assets[i] = mediacontent.MediaAsset{
			SourceURL: a.SourceURL,
			AltText:   a.AltText,
			RemoteRef: a.RemoteRef,
		}
	}
	return assets
}

// parseDate accepts RFC 3339 or a bare date; empty means "now" downstream.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// queryInt parses a non-negative integer query parameter; malformed or
// out-of-range values fall back to the default.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// requestContext threads the chi request id into the service's logging
// correlation.
func requestContext(r *http.Request) context.Context {
	return mediacontent.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
}
