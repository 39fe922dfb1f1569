package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/audit"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/storage/object/local"
	"exitlayer/internal/submissions"
)

type fixture struct {
	router *gin.Engine
	sess   *sessions.Service
	store  *local.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sess := sessions.NewService(sessions.NewMemoryRepo())
	store := local.New(t.TempDir())
	h := NewHandler(sess, store)
	h.NewID = func() string { return "doc-1" }

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return &fixture{router: r, sess: sess, store: store}
}

func (f *fixture) submitted(t *testing.T) sessions.Session {
	t.Helper()
	res, err := submissions.NewService(f.sess).Submit(context.Background(), audit.Response{
		"company_name": "Acme Agency",
		"full_name":    "Jo Smith",
		"email":        "jo@acme.test",
	})
	require.NoError(t, err)
	sess, err := f.sess.Get(context.Background(), res.SessionToken)
	require.NoError(t, err)
	return sess
}

func (f *fixture) upload(t *testing.T, token, fileName string, content []byte, fields map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+token+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestUploadStoresAndExtracts(t *testing.T) {
	f := newFixture(t)
	sess := f.submitted(t)

	w, body := f.upload(t, sess.SessionToken, "pricing notes.md", []byte("# Pricing\n\nRetainer is five thousand"), map[string]string{"email": "JO@acme.test"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	stored, err := f.sess.Get(context.Background(), sess.SessionToken)
	require.NoError(t, err)
	require.Len(t, stored.DocumentsUploaded, 1)
	doc := stored.DocumentsUploaded[0]
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "text/markdown", doc.ContentType)
	assert.Equal(t, "clients/"+sess.ClientFolder+"/uploads/doc-1-pricing notes.md", doc.StorageKey)
	assert.Equal(t, doc.StorageKey+".extracted.txt", doc.ExtractedKey)
	assert.Equal(t, 6, doc.WordCount)
	assert.False(t, doc.UploadedAt.IsZero())
	assert.Equal(t, sessions.StageReady, sessions.DeriveStage(stored))

	rc, err := f.store.Open(context.Background(), doc.StorageKey)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "# Pricing\n\nRetainer is five thousand", string(raw))
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	sess := f.submitted(t)
	draft, err := f.sess.Create(context.Background(), "")
	require.NoError(t, err)

	cases := []struct {
		name     string
		token    string
		fileName string
		content  []byte
		fields   map[string]string
		status   int
	}{
		{"no file", sess.SessionToken, "", nil, nil, http.StatusBadRequest},
		{"unknown session", "missing", "a.txt", []byte("hi"), nil, http.StatusNotFound},
		{"draft session", draft.SessionToken, "a.txt", []byte("hi"), nil, http.StatusBadRequest},
		{"email mismatch", sess.SessionToken, "a.txt", []byte("hi"), map[string]string{"email": "x@y.test"}, http.StatusForbidden},
		{"unsupported type", sess.SessionToken, "photo.png", []byte{0x89, 'P', 'N', 'G'}, nil, http.StatusUnsupportedMediaType},
		{"fake pdf", sess.SessionToken, "deck.pdf", []byte("not a pdf"), nil, http.StatusUnsupportedMediaType},
		{"empty", sess.SessionToken, "a.txt", []byte{}, nil, http.StatusBadRequest},
		{"too large", sess.SessionToken, "big.txt", bytes.Repeat([]byte("a"), maxUploadBytes+1), nil, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := f.upload(t, tc.token, tc.fileName, tc.content, tc.fields)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, false, body["success"])
		})
	}

	stored, err := f.sess.Get(context.Background(), sess.SessionToken)
	require.NoError(t, err)
	assert.Empty(t, stored.DocumentsUploaded)
}
