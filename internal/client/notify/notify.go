// Package notify carries user-facing messages out of the core components.
package notify

// Notifier receives short user-visible messages ("Milk added to cart",
// "Session expired, please sign in again"). Implementations must not block.
type Notifier interface {
	Notify(msg string)
}

// Func adapts a function to the Notifier interface.
type Func func(msg string)

func (f Func) Notify(msg string) { f(msg) }
