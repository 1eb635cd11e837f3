package httpapi

import "net/http"

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.carts.Get(ctx, userIDFrom(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartToDTO(items))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.carts.Add(ctx, userIDFrom(ctx), req.ProductID, req.Name, req.Quantity); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.carts.Remove(ctx, userIDFrom(ctx), req.ProductID); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCartUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.carts.UpdateQuantity(ctx, userIDFrom(ctx), req.ProductID, req.Quantity); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCartMerge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	var req struct {
		Items []cartItemDTO `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	merged, err := s.carts.Merge(ctx, userID, cartFromDTO(userID, req.Items))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartToDTO(merged))
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.carts.Clear(ctx, userIDFrom(ctx)); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
