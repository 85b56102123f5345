package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hanifwid/go-shop-api/internal/users"
)

type UsersHandler struct {
	Svc *users.Service
}

type userDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Address string `json:"address,omitempty"`
}

type userReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Address  string `json:"address"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toUserDTO(u users.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), Address: u.Address}
}

func toUserDTOs(us []users.User) []userDTO {
	out := make([]userDTO, 0, len(us))
	for _, u := range us {
		out = append(out, toUserDTO(u))
	}
	return out
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Post("/login", h.login)
		r.Get("/{id}", h.get)
		r.Get("/email/{email}", h.getByEmail)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *UsersHandler) reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 3*time.Second)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	us, err := h.Svc.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Users retrieved successfully", toUserDTOs(us))
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User retrieved successfully", toUserDTO(u))
}

func (h *UsersHandler) getByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	u, err := h.Svc.GetByEmail(ctx, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User retrieved successfully", toUserDTO(u))
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "name, email and password are required")
		return
	}
	role := users.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		writeBadRequest(w, "invalid role")
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	u, err := h.Svc.Create(ctx, users.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "User created successfully", toUserDTO(u))
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	u, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Login successful", toUserDTO(u))
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	var req userReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeBadRequest(w, "name and email are required")
		return
	}
	role := users.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		writeBadRequest(w, "invalid role")
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	u, err := h.Svc.Update(ctx, id, users.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User updated successfully", toUserDTO(u))
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted successfully", nil)
}
