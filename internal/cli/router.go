package cli

import (
	"sync"

	"quiz-client/internal/apiclient"
)

const homeRoute = "/"

// Router tracks which surface the terminal is showing. The API client
// redirects it to the sign-in route when the backend rejects the session.
type Router struct {
	mu         sync.Mutex
	current    string
	redirected bool
}

func NewRouter(initial string) *Router {
	if initial == "" {
		initial = apiclient.SignInRoute
	}
	return &Router{current: initial}
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Redirect(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.redirected = true
}

// Go navigates as a result of a user action.
func (r *Router) Go(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
}

// TakeRedirect reports whether a forced redirect happened since the last call.
func (r *Router) TakeRedirect() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	redirected := r.redirected
	r.redirected = false
	return redirected
}

func (r *Router) signedIn() bool {
	return r.Current() != apiclient.SignInRoute
}
