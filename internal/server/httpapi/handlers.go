package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 10 << 20
	avatarFormField  = "avatar"
	fieldAccountType = "accountType"
)

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	RePassword  string `json:"repassword"`
	AccountType int    `json:"accountType"`
}

// LoginRequest is the body of POST /users/login. Login is a username or an email.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type Handler struct {
	svc AccountService
	log logging.Logger
}

func NewHandler(svc AccountService, l logging.Logger) *Handler {
	return &Handler{svc: svc, log: l}
}

// Register handles POST /users/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.CreateNewUser(r.Context(), services.Registration{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		RePassword:  req.RePassword,
		AccountType: req.AccountType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

// Login handles POST /users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.LoginUser(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.DisplayAllUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeFetch(w, profiles)
}

// Me handles GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	h.fetch(w, r, claims.UserID)
}

// Get handles GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, common.NewNotFoundError(common.MsgUserNotFound))
		return
	}
	h.fetch(w, r, id)
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request, id int64) {
	profile, err := h.svc.GetUserData(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeFetch(w, profile)
}

// Create handles POST /users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, file, ok := h.parseAccountForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer closeUpload(file)
	}

	res, err := h.svc.AddNewUser(r.Context(), fields, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

// EditMe handles PUT /users/me
func (h *Handler) EditMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	fields, file, ok := h.parseAccountForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer closeUpload(file)
	}

	res, err := h.svc.EditUserData(r.Context(), claims.UserID, fields, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		writeError(w, common.NewValidationError(common.FieldNone, common.MsgMalformedRequest))
		return false
	}
	return true
}

// parseAccountForm reads the editable fields and the optional avatar part
// from a multipart or urlencoded form.
func (h *Handler) parseAccountForm(w http.ResponseWriter, r *http.Request) (services.AccountFields, *avatars.Upload, bool) {
	var f services.AccountFields

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
		switch mediaType {
		case "multipart/form-data":
			err = r.ParseMultipartForm(maxMultipartBody)
		case "application/x-www-form-urlencoded":
			err = r.ParseForm()
		default:
			err = fmt.Errorf("unsupported content type %q", mediaType)
		}
	}
	if err != nil {
		h.log.Warn(r.Context(), "malformed account form", "error", err)
		writeError(w, common.NewValidationError(common.FieldNone, common.MsgMalformedRequest))
		return f, nil, false
	}

	if v := r.FormValue(fieldAccountType); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, common.NewValidationError(fieldAccountType, common.MsgAccountTypeIncorrect))
			return f, nil, false
		}
		f.AccountType = t
	}

	f.Username = r.FormValue("username")
	f.Email = r.FormValue("email")
	f.Password = r.FormValue("password")
	f.FirstName = r.FormValue("firstName")
	f.LastName = r.FormValue("lastName")
	f.Description = r.FormValue("description")
	f.PhoneNumber = r.FormValue("phoneNumber")
	f.Website = r.FormValue("website")

	if r.MultipartForm == nil {
		return f, nil, true
	}

	file, header, err := r.FormFile(avatarFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return f, nil, true
	}
	if err != nil {
		writeError(w, common.NewValidationError(avatarFormField, common.MsgMalformedRequest))
		return f, nil, false
	}

	return f, &avatars.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, true
}

func closeUpload(up *avatars.Upload) {
	if c, ok := up.Body.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
