package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cartsync/internal/server/models"
	"github.com/dmitrijs2005/cartsync/internal/server/services"
)

// mergeGuestCart folds a guest cart carried on an auth request into the
// user's cart and returns the resulting cart.
func (s *Server) mergeGuestCart(ctx context.Context, userID string, guest []cartItemDTO) ([]models.CartItem, error) {
	if len(guest) == 0 {
		return s.carts.Get(ctx, userID)
	}
	return s.carts.Merge(ctx, userID, cartFromDTO(userID, guest))
}

func (s *Server) writeAuthResponse(ctx context.Context, w http.ResponseWriter, status int,
	pair *services.TokenPair, user *models.User, guest []cartItemDTO) {

	cart, err := s.mergeGuestCart(ctx, user.ID, guest)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, status, authResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
		User:    userToDTO(user),
		Cart:    cartToDTO(cart),
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email     string        `json:"email"`
		Password  string        `json:"password"`
		GuestCart []cartItemDTO `json:"guest_cart"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	pair, user, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.log.Info(ctx, "login rejected", "email", req.Email)
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "login", "user_id", user.ID)
	s.writeAuthResponse(ctx, w, http.StatusOK, pair, user, req.GuestCart)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email     string        `json:"email"`
		Password  string        `json:"password"`
		FirstName string        `json:"first_name"`
		LastName  string        `json:"last_name"`
		GuestCart []cartItemDTO `json:"guest_cart"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	user, err := s.users.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	pair, _, err := s.users.Login(ctx, user.Email, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	s.writeAuthResponse(ctx, w, http.StatusCreated, pair, user, req.GuestCart)
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	pair, err := s.users.RefreshToken(ctx, req.Refresh)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}{pair.AccessToken, pair.RefreshToken})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.users.Profile(ctx, userIDFrom(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

// handleLogout revokes the user's refresh tokens and clears the server-side
// cart, so the next sign-in starts from whatever the guest device carries.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	if err := s.users.Logout(ctx, userID); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "logout", "user_id", userID)
	writeJSON(w, http.StatusOK, errorBody{Detail: "Logged out and cart cleared."})
}
