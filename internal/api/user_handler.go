package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	appuser "github.com/ironfitwear/storefront/internal/application/user"
)

type userHandler struct {
	users *appuser.Service
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (h *userHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.users.Register(r.Context(), appuser.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authView{
		ID:      res.User.ID,
		Name:    res.User.Name,
		Email:   res.User.Email,
		IsAdmin: res.User.IsAdmin,
		Token:   res.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *userHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authView{
		ID:      res.User.ID,
		Name:    res.User.Name,
		Email:   res.User.Email,
		IsAdmin: res.User.IsAdmin,
		Token:   res.Token,
	})
}

func (h *userHandler) me(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	writeJSON(w, http.StatusOK, newUserView(p))
}

func (h *userHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *userHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user removed"})
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *userHandler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := principalFromContext(r.Context())
	items, err := h.users.ToggleWishlist(r.Context(), p.ID, req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductViews(items))
}

func (h *userHandler) wishlist(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	items, err := h.users.GetWishlist(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductViews(items))
}
