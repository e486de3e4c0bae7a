package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/profile"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
)

type stubStore struct {
	docs     map[uuid.UUID]*db.Document
	profiles map[uuid.UUID]*profile.CandidateProfile
	created  []uuid.UUID
	err      error
}

func newStubStore() *stubStore {
	return &stubStore{
		docs:     make(map[uuid.UUID]*db.Document),
		profiles: make(map[uuid.UUID]*profile.CandidateProfile),
	}
}

func (s *stubStore) CreateDocument(_ context.Context, userID uuid.UUID, filename string, fileSize int64, mimeType, storagePath string) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	id := uuid.New()
	s.docs[id] = &db.Document{
		ID: id, UserID: userID, Filename: filename,
		FileSize: fileSize, MimeType: mimeType, StoragePath: storagePath,
		Status: db.StatusPending,
	}
	s.created = append(s.created, id)
	return id, nil
}

func (s *stubStore) GetDocument(_ context.Context, docID, userID uuid.UUID) (*db.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[docID]
	if !ok || doc.UserID != userID {
		return nil, nil
	}
	return doc, nil
}

func (s *stubStore) ListDocuments(_ context.Context, userID uuid.UUID) ([]db.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []db.Document
	for _, doc := range s.docs {
		if doc.UserID == userID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (s *stubStore) GetProfileByDocumentID(_ context.Context, docID uuid.UUID) (*profile.CandidateProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles[docID], nil
}

type stubBlobs struct {
	stored map[string][]byte
	err    error
}

func (b *stubBlobs) Download(_ context.Context, locator string) ([]byte, error) {
	return b.stored[locator], nil
}

func (b *stubBlobs) Store(_ context.Context, locator string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.stored == nil {
		b.stored = make(map[string][]byte)
	}
	b.stored[locator] = data
	return nil
}

type stubParser struct {
	prof  *profile.CandidateProfile
	err   error
	calls int
}

func (p *stubParser) Parse(_ context.Context, _, _ uuid.UUID) (*profile.CandidateProfile, error) {
	p.calls++
	return p.prof, p.err
}

func newTestServer(store *stubStore, blobs *stubBlobs, parser *stubParser) *Server {
	return &Server{
		store:  store,
		blobs:  blobs,
		parser: parser,
		limiter: ratelimit.NewLimiter(ratelimit.NewMemoryStore(), &ratelimit.Config{
			Enabled: true,
			Limit:   100,
			Window:  time.Hour,
		}),
	}
}

func authedRequest(t *testing.T, method, target string, body *bytes.Buffer, userID uuid.UUID) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return middleware.WithUserID(req, userID)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	store := newStubStore()
	blobs := &stubBlobs{}
	s := newTestServer(store, blobs, &stubParser{})
	userID := uuid.New()

	body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4 fake content"))
	req := authedRequest(t, http.MethodPost, "/documents", body, userID)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.handleUpload(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "resume.pdf", resp["filename"])
	assert.Equal(t, db.StatusPending, resp["status"])

	require.Len(t, store.created, 1)
	doc := store.docs[store.created[0]]
	assert.Equal(t, userID, doc.UserID)
	assert.Equal(t, db.StatusPending, doc.Status)

	// The blob must be stored under the locator recorded on the document.
	assert.Equal(t, []byte("%PDF-1.4 fake content"), blobs.stored[doc.StoragePath])
}

func TestHandleUpload_MissingFileField(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := authedRequest(t, http.MethodPost, "/documents", &buf, uuid.New())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	s.handleUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpload_EmptyFile(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	body, contentType := multipartBody(t, "empty.pdf", nil)
	req := authedRequest(t, http.MethodPost, "/documents", body, uuid.New())
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.handleUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpload_Unauthenticated(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	body, contentType := multipartBody(t, "resume.pdf", []byte("content"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.handleUpload(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleListDocuments(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	otherID := uuid.New()
	docID := uuid.New()
	store.docs[docID] = &db.Document{ID: docID, UserID: userID, Filename: "mine.pdf", Status: db.StatusPending}
	foreignID := uuid.New()
	store.docs[foreignID] = &db.Document{ID: foreignID, UserID: otherID, Filename: "theirs.pdf", Status: db.StatusPending}

	s := newTestServer(store, &stubBlobs{}, &stubParser{})
	req := authedRequest(t, http.MethodGet, "/documents", nil, userID)
	w := httptest.NewRecorder()

	s.handleListDocuments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []db.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "mine.pdf", resp.Documents[0].Filename)
}

func TestHandleGetDocument_InvalidID(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	req := authedRequest(t, http.MethodGet, "/documents/not-a-uuid", nil, uuid.New())
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetDocument(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "invalid document ID")
}

func TestHandleGetDocument_NotFound(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	missing := uuid.New()
	req := authedRequest(t, http.MethodGet, "/documents/"+missing.String(), nil, uuid.New())
	req.SetPathValue("id", missing.String())
	w := httptest.NewRecorder()

	s.handleGetDocument(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetDocument_OtherUsersDocumentIsNotFound(t *testing.T) {
	store := newStubStore()
	owner := uuid.New()
	docID := uuid.New()
	store.docs[docID] = &db.Document{ID: docID, UserID: owner, Filename: "theirs.pdf"}

	s := newTestServer(store, &stubBlobs{}, &stubParser{})
	req := authedRequest(t, http.MethodGet, "/documents/"+docID.String(), nil, uuid.New())
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleGetDocument(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleParse(t *testing.T) {
	prof := profile.Empty("raw resume text")
	name := "Jane Doe"
	prof.FullName = &name
	parser := &stubParser{prof: prof}

	s := newTestServer(newStubStore(), &stubBlobs{}, parser)
	docID := uuid.New()
	req := authedRequest(t, http.MethodPost, "/documents/"+docID.String()+"/parse", nil, uuid.New())
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleParse(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, parser.calls)

	var resp struct {
		Status  string                    `json:"status"`
		Profile *profile.CandidateProfile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, db.StatusCompleted, resp.Status)
	require.NotNil(t, resp.Profile.FullName)
	assert.Equal(t, "Jane Doe", *resp.Profile.FullName)
}

func TestHandleParse_NotFound(t *testing.T) {
	parser := &stubParser{err: pipeline.ErrNotFound}
	s := newTestServer(newStubStore(), &stubBlobs{}, parser)

	docID := uuid.New()
	req := authedRequest(t, http.MethodPost, "/documents/"+docID.String()+"/parse", nil, uuid.New())
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleParse(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleParse_DownloadErrorIsBadGateway(t *testing.T) {
	parser := &stubParser{err: &pipeline.DownloadError{Locator: "u/x.pdf", Err: errors.New("blob gone")}}
	s := newTestServer(newStubStore(), &stubBlobs{}, parser)

	docID := uuid.New()
	req := authedRequest(t, http.MethodPost, "/documents/"+docID.String()+"/parse", nil, uuid.New())
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleParse(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleParse_RateLimited(t *testing.T) {
	parser := &stubParser{prof: profile.Empty("text")}
	s := newTestServer(newStubStore(), &stubBlobs{}, parser)
	s.limiter = ratelimit.NewLimiter(ratelimit.NewMemoryStore(), &ratelimit.Config{
		Enabled: true,
		Limit:   1,
		Window:  time.Hour,
	})

	userID := uuid.New()
	docID := uuid.New()

	for i, wantCode := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := authedRequest(t, http.MethodPost, "/documents/"+docID.String()+"/parse", nil, userID)
		req.SetPathValue("id", docID.String())
		w := httptest.NewRecorder()

		s.handleParse(w, req)
		assert.Equalf(t, wantCode, w.Code, "request %d", i)
	}

	// The limited request never reached the parser.
	assert.Equal(t, 1, parser.calls)
}

func TestHandleGetProfile(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	docID := uuid.New()
	store.docs[docID] = &db.Document{ID: docID, UserID: userID, Status: db.StatusCompleted}
	prof := profile.Empty("stored raw text")
	email := "jane@example.com"
	prof.Email = &email
	store.profiles[docID] = prof

	s := newTestServer(store, &stubBlobs{}, &stubParser{})
	req := authedRequest(t, http.MethodGet, "/documents/"+docID.String()+"/profile", nil, userID)
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleGetProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got profile.CandidateProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Email)
	assert.Equal(t, "jane@example.com", *got.Email)
}

func TestHandleGetProfile_NoProfileYet(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	docID := uuid.New()
	store.docs[docID] = &db.Document{ID: docID, UserID: userID, Status: db.StatusPending}

	s := newTestServer(store, &stubBlobs{}, &stubParser{})
	req := authedRequest(t, http.MethodGet, "/documents/"+docID.String()+"/profile", nil, userID)
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleGetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetProfile_ForeignDocumentHidesProfile(t *testing.T) {
	store := newStubStore()
	owner := uuid.New()
	docID := uuid.New()
	store.docs[docID] = &db.Document{ID: docID, UserID: owner, Status: db.StatusCompleted}
	store.profiles[docID] = profile.Empty("text")

	s := newTestServer(store, &stubBlobs{}, &stubParser{})
	req := authedRequest(t, http.MethodGet, "/documents/"+docID.String()+"/profile", nil, uuid.New())
	req.SetPathValue("id", docID.String())
	w := httptest.NewRecorder()

	s.handleGetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(newStubStore(), &stubBlobs{}, &stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
