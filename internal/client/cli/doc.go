// Package cli implements the interactive cartsync shell.
//
// The shell is a plain read-eval-print loop over stdin. Cart commands mutate
// the local store only; persistence and server synchronization happen behind
// the store's subscriptions, so every command stays instant regardless of
// network state.
//
// Commands
//
//	Not signed in:
//	  - register             — create an account (guest cart is merged in)
//	  - login                — authenticate (guest cart is merged in)
//	  - add | remove | qty   — edit the guest cart
//	  - show                 — print the cart
//	  - exit | quit          — leave the program
//
//	Signed in, additionally:
//	  - checkout             — place an order from the current cart
//	  - orders               — list orders
//	  - cancel <id>          — cancel an order
//	  - logout               — sign out (clears the local cart)
package cli
