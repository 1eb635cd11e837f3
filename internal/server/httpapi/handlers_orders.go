package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	var req struct {
		Items           []cartItemDTO `json:"items"`
		ShippingAddress string        `json:"shipping_address"`
		PaymentMethod   string        `json:"payment_method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	order, err := s.orders.Create(ctx, userID, req.ShippingAddress, req.PaymentMethod, cartFromDTO(userID, req.Items))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "order created", "user_id", userID, "order_id", order.ID, "items", len(order.Items))
	writeJSON(w, http.StatusCreated, orderToDTO(order))
}

func (s *Server) handleOrderList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := s.orders.List(ctx, userIDFrom(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	out := make([]orderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, orderToDTO(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOrderCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	orderID := chi.URLParam(r, "orderID")

	if err := s.orders.Cancel(ctx, userID, orderID); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "order canceled", "user_id", userID, "order_id", orderID)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleOrderCancelItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	orderID := chi.URLParam(r, "orderID")

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.orders.CancelItem(ctx, userID, orderID, req.ProductID); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.log.Info(ctx, "order line canceled", "user_id", userID, "order_id", orderID, "product_id", req.ProductID)
	writeJSON(w, http.StatusOK, nil)
}
