package demobackend

import "net/http"

func NewRouter(store *Store, opts Options) http.Handler {
	api := NewAPI(store, opts)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", api.HandleRegister)
	mux.Handle("/api/auth/me", api.requireAuth(http.HandlerFunc(api.HandleMe)))
	mux.Handle("/api/quizzes/generate", api.requireAuth(http.HandlerFunc(api.HandleGenerate)))
	mux.Handle("/api/quiz-submissions/submit", api.requireAuth(http.HandlerFunc(api.HandleSubmit)))
	mux.Handle("/api/quiz-submissions/history", api.requireAuth(http.HandlerFunc(api.HandleHistory)))

	return api.logRequests(mux)
}
