package httpapi

import "github.com/dmitrijs2005/cartsync/internal/server/models"

type cartItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
}

func cartToDTO(items []models.CartItem) []cartItemDTO {
	out := make([]cartItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemDTO{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity})
	}
	return out
}

func cartFromDTO(userID string, items []cartItemDTO) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.CartItem{
			UserID:    userID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}
	return out
}

type userDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func userToDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

type orderDTO struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Items  []cartItemDTO `json:"items"`
}

func orderToDTO(o *models.Order) orderDTO {
	items := make([]cartItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, cartItemDTO{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity})
	}
	return orderDTO{ID: o.ID, Status: o.Status, Items: items}
}

type authResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    userDTO       `json:"user"`
	Cart    []cartItemDTO `json:"cart"`
}
