package cli

import (
	"context"
	"fmt"
	"os"
)

// Checkout prompts for shipping details and places an order from the current
// cart. User-facing failure messages come from the checkout service's
// notifier; here we only gate on login and collect input.
func (a *App) Checkout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login to checkout")
		return nil
	}

	address, err := getSimpleText(a.reader, "Enter shipping address", os.Stdout)
	if err != nil {
		return err
	}
	payment, err := getSimpleText(a.reader, "Enter payment method", os.Stdout)
	if err != nil {
		return err
	}

	_, err = a.checkout.PlaceOrder(ctx, address, payment)
	return err
}

// Orders lists the user's orders.
func (a *App) Orders(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login to see your orders")
		return nil
	}

	orders, err := a.checkout.Orders(ctx)
	if err != nil {
		printlnFn("Failed to list orders:", err.Error())
		return err
	}
	if len(orders) == 0 {
		printlnFn("No orders yet")
		return nil
	}
	for _, o := range orders {
		printlnFn(fmt.Sprintf("%-36s %-10s %d item(s)", o.ID, o.Status, len(o.Items)))
	}
	return nil
}

// Cancel cancels an order. Usage: cancel <order-id>.
func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: cancel <order-id>")
		return nil
	}
	if !a.isLoggedIn() {
		printlnFn("Please login to cancel an order")
		return nil
	}
	if err := a.checkout.CancelOrder(ctx, args[0]); err != nil {
		printlnFn("Failed to cancel order:", err.Error())
		return err
	}
	printlnFn("Order", args[0], "canceled")
	return nil
}
