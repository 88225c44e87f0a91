package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"panel/internal/app/ds"
	"panel/internal/app/dto"
	"panel/internal/app/manifest"
	"panel/internal/app/repository"
	"panel/internal/app/storage"
	"panel/internal/app/validation"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu          sync.Mutex
	nextID      uint
	options     map[uint]bool
	packs       map[uint]ds.Pack
	variables   map[uint]ds.ServiceVariable
	packServers map[uint]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		options:     map[uint]bool{1: true, 2: true},
		packs:       map[uint]ds.Pack{},
		variables:   map[uint]ds.ServiceVariable{},
		packServers: map[uint]int{},
	}
}

func (r *fakeRepo) Exists(_ context.Context, table string, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if table != validation.TableServiceOptions {
		return false, nil
	}
	return r.options[id], nil
}

func (r *fakeRepo) GetAllPacks(context.Context) ([]ds.Pack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var packs []ds.Pack
	for id := uint(1); id <= r.nextID; id++ {
		if p, ok := r.packs[id]; ok {
			packs = append(packs, p)
		}
	}
	return packs, nil
}

func (r *fakeRepo) SearchPacks(ctx context.Context, query string) ([]ds.Pack, error) {
	all, _ := r.GetAllPacks(ctx)
	var packs []ds.Pack
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			packs = append(packs, p)
		}
	}
	return packs, nil
}

func (r *fakeRepo) GetPackByID(_ context.Context, id uint) (*ds.Pack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packs[id]
	if !ok {
		return nil, repository.ErrPackNotFound
	}
	return &p, nil
}

func (r *fakeRepo) CreatePack(_ context.Context, pack *ds.Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	pack.ID = r.nextID
	r.packs[pack.ID] = *pack
	return nil
}

func (r *fakeRepo) UpdatePack(_ context.Context, pack *ds.Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs[pack.ID] = *pack
	return nil
}

func (r *fakeRepo) DeletePack(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.packServers[id] > 0 {
		return repository.ErrPackInUse
	}
	if _, ok := r.packs[id]; !ok {
		return repository.ErrPackNotFound
	}
	delete(r.packs, id)
	return nil
}

func (r *fakeRepo) GetVariablesByOption(_ context.Context, optionID uint) ([]ds.ServiceVariable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var variables []ds.ServiceVariable
	for id := uint(1); id <= r.nextID; id++ {
		if v, ok := r.variables[id]; ok && v.OptionID == optionID {
			variables = append(variables, v)
		}
	}
	return variables, nil
}

func (r *fakeRepo) GetVariableByID(_ context.Context, id uint) (*ds.ServiceVariable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.variables[id]
	if !ok {
		return nil, repository.ErrVariableNotFound
	}
	return &v, nil
}

func (r *fakeRepo) CreateVariable(_ context.Context, variable *ds.ServiceVariable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	variable.ID = r.nextID
	r.variables[variable.ID] = *variable
	return nil
}

func (r *fakeRepo) UpdateVariable(_ context.Context, variable *ds.ServiceVariable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[variable.ID] = *variable
	return nil
}

func (r *fakeRepo) DeleteVariable(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.variables[id]; !ok {
		return repository.ErrVariableNotFound
	}
	delete(r.variables, id)
	return nil
}

type testEnv struct {
	router *gin.Engine
	repo   *fakeRepo
	store  *storage.LocalStore
}

func setup(t *testing.T, opts ...manifest.Option) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	store := storage.NewLocalStore(afero.NewMemMapFs(), "/data")
	h := NewHandler(repo, store, manifest.New(store, opts...))

	router := gin.New()
	h.RegisterRoutes(router)
	return &testEnv{router: router, repo: repo, store: store}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *testEnv) createPack(t *testing.T) dto.PackResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/packs", `{"option_id":1,"name":"Vanilla","version":"1.12.2"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.PackResponse](t, w)
}

func TestCreatePack(t *testing.T) {
	env := setup(t)

	pack := env.createPack(t)
	assert.NotEmpty(t, pack.UUID)
	assert.Equal(t, "Vanilla", pack.Name)
	assert.True(t, pack.Selectable)
	assert.True(t, pack.Visible)
	assert.False(t, pack.Locked)
	assert.Nil(t, pack.Description)
}

func TestCreatePack_Invalid(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/packs", `{"option_id":9,"version":"1.0"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[dto.ValidationErrorResponse](t, w)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "name", resp.Errors[0].Field)
	assert.Equal(t, "option_id", resp.Errors[1].Field)
	assert.Equal(t, "exists", resp.Errors[1].Rule)
	assert.Empty(t, env.repo.packs)
}

func TestCreatePack_BadJSON(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/packs", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePack_WrongTypeReportedWithOtherFields(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/packs", `{"option_id":9,"selectable":"yes"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decode[dto.ValidationErrorResponse](t, w)
	fields := make([]string, len(resp.Errors))
	for i, fe := range resp.Errors {
		fields[i] = fe.Field
	}
	assert.Equal(t, []string{"name", "version", "selectable", "option_id"}, fields)
	assert.Equal(t, "type", resp.Errors[2].Rule)
	assert.Empty(t, env.repo.packs)
}

func TestUpdateVariable_WrongType(t *testing.T) {
	env := setup(t)
	w := env.do(http.MethodPost, "/api/options/1/variables", `{"name":"Port","env_variable":"SERVER_PORT","rules":"required|integer"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPut, "/api/variables/1", `{"user_editable":"yes","env_variable":"HOME"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decode[dto.ValidationErrorResponse](t, w)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "env_variable", resp.Errors[0].Field)
	assert.Equal(t, "user_editable", resp.Errors[1].Field)
	assert.Equal(t, "type", resp.Errors[1].Rule)

	// option_id переменной не меняется, поэтому его тип не проверяется
	w = env.do(http.MethodPut, "/api/variables/1", `{"option_id":"two","name":"Listen Port"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, uint(1), decode[dto.ServiceVariableResponse](t, w).OptionID)
}

func TestUpdatePack_MergesFields(t *testing.T) {
	env := setup(t)
	pack := env.createPack(t)

	w := env.do(http.MethodPut, "/api/packs/1", `{"version":"1.13","locked":true,"description":"Stock"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[dto.PackResponse](t, w)
	assert.Equal(t, pack.UUID, updated.UUID)
	assert.Equal(t, "Vanilla", updated.Name)
	assert.Equal(t, "1.13", updated.Version)
	assert.True(t, updated.Locked)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Stock", *updated.Description)

	w = env.do(http.MethodPut, "/api/packs/1", `{"name":"  "}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Vanilla", env.repo.packs[1].Name)
}

func TestGetPacks_Search(t *testing.T) {
	env := setup(t)
	env.createPack(t)

	w := env.do(http.MethodGet, "/api/packs?query=vani", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.PackListResponse](t, w).Total)

	w = env.do(http.MethodGet, "/api/packs?query=forge", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[dto.PackListResponse](t, w).Total)
}

func TestGetPack_NotFoundAndBadID(t *testing.T) {
	env := setup(t)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/packs/5", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/packs/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/packs/0", "").Code)
}

func TestPackFiles_UploadAndList(t *testing.T) {
	env := setup(t)
	env.createPack(t)

	w := env.do(http.MethodGet, "/api/packs/1/files", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[dto.PackFileListResponse](t, w).Total)

	w = env.upload(t, "/api/packs/1/files", "archive.tar.gz", []byte("hello"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/packs/1/files", "")
	require.Equal(t, http.StatusOK, w.Code)
	files := decode[dto.PackFileListResponse](t, w)
	require.Equal(t, 1, files.Total)
	assert.Equal(t, dto.PackFileResponse{
		Name:  "archive.tar.gz",
		Hash:  "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		Size:  "5 B",
		Bytes: 5,
	}, files.Files[0])
}

func TestPackFiles_MissingAsError(t *testing.T) {
	env := setup(t, manifest.WithMissingPolicy(manifest.MissingAsError))
	env.createPack(t)

	w := env.do(http.MethodGet, "/api/packs/1/files", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePack(t *testing.T) {
	env := setup(t)
	pack := env.createPack(t)
	require.Equal(t, http.StatusCreated, env.upload(t, "/api/packs/1/files", "a.zip", []byte("a")).Code)

	env.repo.packServers[1] = 2
	w := env.do(http.MethodDelete, "/api/packs/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	env.repo.packServers[1] = 0
	w = env.do(http.MethodDelete, "/api/packs/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.store.List(context.Background(), pack.UUID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/packs/1", "").Code)
}

func TestCreateVariable(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/options/1/variables",
		`{"name":"Server Jar File","env_variable":"SERVER_JARFILE","default_value":"server.jar","rules":"required|string|between:1,255"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	variable := decode[dto.ServiceVariableResponse](t, w)
	assert.Equal(t, uint(1), variable.OptionID)
	assert.True(t, variable.Required)
	assert.False(t, variable.UserViewable)
	assert.False(t, variable.UserEditable)
	assert.Equal(t, "server.jar", variable.DefaultValue)

	w = env.do(http.MethodGet, "/api/options/1/variables", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.ServiceVariableListResponse](t, w).Total)
}

func TestCreateVariable_Reserved(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/options/1/variables",
		`{"name":"Port","env_variable":"SERVER_PORT","rules":"required|integer"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[dto.ValidationErrorResponse](t, w)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "env_variable", resp.Errors[0].Field)
	assert.Equal(t, string(validation.ReasonReserved), resp.Errors[0].Reason)
}

func TestCreateVariable_UnknownOption(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/options/3/variables",
		`{"name":"Port","env_variable":"GAME_PORT","rules":"required"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/options/3/variables", "").Code)
}

func TestUpdateVariable(t *testing.T) {
	env := setup(t)
	w := env.do(http.MethodPost, "/api/options/2/variables",
		`{"name":"Max Players","env_variable":"MAX_PLAYERS","rules":"required|integer","user_viewable":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPut, "/api/variables/1", `{"rules":"sometimes|integer","user_editable":true,"option_id":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	variable := decode[dto.ServiceVariableResponse](t, w)
	assert.False(t, variable.Required)
	assert.True(t, variable.UserViewable)
	assert.True(t, variable.UserEditable)
	assert.Equal(t, uint(2), variable.OptionID)
	assert.Equal(t, "MAX_PLAYERS", variable.EnvVariable)

	w = env.do(http.MethodPut, "/api/variables/1", `{"env_variable":"HOME"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MAX_PLAYERS", env.repo.variables[1].EnvVariable)
}

func TestDeleteVariable(t *testing.T) {
	env := setup(t)
	w := env.do(http.MethodPost, "/api/options/1/variables",
		`{"name":"Version","env_variable":"MC_VERSION","rules":"string"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/variables/1", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/variables/1", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/variables/1", "").Code)
}

func TestPing(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
