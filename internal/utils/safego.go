package utils

import "log"

// Go runs fn on its own goroutine and logs a panic instead of letting it
// take the process down. Background work (like the async storage init)
// goes through here; request handlers are covered by gin's Recovery.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered panic in %s: %v", name, r)
			}
		}()
		fn()
	}()
}
