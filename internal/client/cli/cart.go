package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
)

// Add puts an item into the local cart. Usage: add <product-id> <qty> [name].
// The store echoes the change to subscribers, so persistence and server sync
// need no involvement here.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: add <product-id> <qty> [name]")
		return nil
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		printlnFn("Quantity must be a number")
		return nil
	}
	name := args[0]
	if len(args) > 2 {
		name = strings.Join(args[2:], " ")
	}

	a.store.AddItem(models.CartItem{ProductID: args[0], Name: name, Quantity: qty})
	return nil
}

// Remove drops an item from the local cart. Usage: remove <product-id>.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove <product-id>")
		return nil
	}
	a.store.RemoveItem(args[0])
	return nil
}

// SetQuantity overwrites an item's quantity. Usage: qty <product-id> <n>.
// Zero removes the item.
func (a *App) SetQuantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: qty <product-id> <n>")
		return nil
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		printlnFn("Quantity must be a number")
		return nil
	}
	a.store.SetQuantity(args[0], qty)
	return nil
}

// Show prints the current cart.
func (a *App) Show(ctx context.Context) error {
	items := a.store.Items()
	if items.IsEmpty() {
		printlnFn("Your cart is empty")
		return nil
	}
	for _, it := range items {
		printlnFn(fmt.Sprintf("%-20s %-30s x%d", it.ProductID, it.Name, it.Quantity))
	}
	return nil
}

// ClearCart empties the local cart.
func (a *App) ClearCart(ctx context.Context) error {
	a.store.Clear()
	printlnFn("Cart cleared")
	return nil
}
