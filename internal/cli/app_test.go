package cli

import (
	"bufio"
	"bytes"
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"quiz-client/internal/apiclient"
	"quiz-client/internal/credstore"
	"quiz-client/internal/demobackend"
	"quiz-client/internal/flow"
	"quiz-client/internal/session"
)

type harness struct {
	server *httptest.Server
	kv     *credstore.MemoryKV
	// rejectQuizCalls makes the backend answer quiz endpoints with 401.
	rejectQuizCalls atomic.Bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := demobackend.NewStore()
	if err := store.SeedDefaultUsers(); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	backend := demobackend.NewRouter(store, demobackend.Options{
		Source: demobackend.NewTemplateSource(rand.New(rand.NewSource(1))),
	})

	h := &harness{kv: credstore.NewMemoryKV()}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.rejectQuizCalls.Load() && strings.HasPrefix(r.URL.Path, "/api/quiz") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(h.server.Close)
	return h
}

func (h *harness) run(t *testing.T, script string) string {
	t.Helper()
	client := apiclient.New(h.server.URL, h.server.Client(), nil)
	manager := session.NewManager(credstore.NewKVStore(h.kv), client, nil)
	router := NewRouter(apiclient.SignInRoute)
	client.UseAuthenticator(manager)
	client.UseNavigator(router)
	controller := flow.NewController(client, manager, flow.Options{
		BackendURL: client.BaseURL(),
		Rand:       rand.New(rand.NewSource(1)),
	})

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(script), &out, Config{
		Session:    manager,
		Flow:       controller,
		Router:     router,
		History:    client,
		BackendURL: client.BaseURL(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, fragment := range want {
		if !strings.Contains(output, fragment) {
			t.Fatalf("output missing %q\n--- output ---\n%s", fragment, output)
		}
	}
}

func TestRunFullQuizSession(t *testing.T) {
	h := newHarness(t)

	output := h.run(t, strings.Join([]string{
		"generate",
		"login user", "wrongpass",
		"login user", "user123",
		"generate Golang", "",
		"submit",
		"answer 1 B",
		"play", "A", "A", "A", "A",
		"submit",
		"history",
		"new",
		"show",
		"exit",
	}, "\n")+"\n")

	assertContains(t, output,
		"Please sign in first",
		"error: Invalid username or password",
		"Signed in as user <user@quiz.com> (USER)",
		"Quiz: Golang",
		"Please answer all 5 remaining questions before submitting. Missing: 1, 2, 3, 4, 5",
		"All questions answered.",
		"Score: ",
		"/5 (",
		"Your submissions:",
		"No quiz in progress.",
	)
}

func TestRunRestoresSessionFromStore(t *testing.T) {
	h := newHarness(t)
	h.run(t, "login admin\nadmin123\nexit\n")

	output := h.run(t, "status\nlogout\ngenerate Golang\nexit\n")
	assertContains(t, output, "Signed in as admin", "Signed out.", "Please sign in first")

	if _, ok, _ := h.kv.GetItem(context.Background(), credstore.StorageKey); ok {
		t.Fatalf("expected credentials to be cleared after logout")
	}
}

func TestRunRedirectsToSignInWhenBackendRejectsSession(t *testing.T) {
	h := newHarness(t)
	h.rejectQuizCalls.Store(true)

	output := h.run(t, "login user\nuser123\ngenerate Golang\n\ngenerate Golang\nexit\n")

	assertContains(t, output,
		"error: Your session has expired. Please sign in again.",
		"Signed out because the server rejected your credentials.",
	)
	if strings.Count(output, "Signed out because") != 1 {
		t.Fatalf("expected a single redirect notice\n%s", output)
	}
	if !strings.Contains(output[strings.Index(output, "Signed out because"):], "Please sign in first") {
		t.Fatalf("expected quiz commands to require sign-in after redirect\n%s", output)
	}
}

func TestRunSubmitFailureOffersSampleData(t *testing.T) {
	h := newHarness(t)

	// The quiz is generated, then the backend goes away before submission.
	client := apiclient.New(h.server.URL, h.server.Client(), nil)
	manager := session.NewManager(credstore.NewKVStore(h.kv), client, nil)
	client.UseAuthenticator(manager)
	if result := manager.Login(context.Background(), "user", "user123"); !result.Success {
		t.Fatalf("login failed: %s", result.Error)
	}
	controller := flow.NewController(client, manager, flow.Options{BackendURL: client.BaseURL()})
	if _, err := controller.Generate(context.Background(), "Golang", ""); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	h.server.Close()

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("play\nA\nA\nA\nA\nA\nsubmit\nsample\nexit\n"), &out, Config{
		Session:    manager,
		Flow:       controller,
		Router:     NewRouter(homeRoute),
		BackendURL: client.BaseURL(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assertContains(t, out.String(),
		"Cannot connect to backend server at "+client.BaseURL(),
		"Type 'submit' to retry, or 'sample' to view sample results.",
		"Sample results (not graded by the server)",
	)
}

func TestPromptAnswer(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(" b \n"))
	var out bytes.Buffer

	index, ok := promptAnswer(reader, &out, 2)
	if !ok || index != 1 {
		t.Fatalf("promptAnswer valid = (%d, %t), want (1, true)", index, ok)
	}

	reader = bufio.NewReader(strings.NewReader("z\n"))
	index, ok = promptAnswer(reader, &out, 2)
	if ok || index != -1 {
		t.Fatalf("promptAnswer invalid = (%d, %t), want (-1, false)", index, ok)
	}
}

func TestRouterTakeRedirect(t *testing.T) {
	router := NewRouter("")
	if router.Current() != apiclient.SignInRoute {
		t.Fatalf("default route = %q", router.Current())
	}

	router.Go(homeRoute)
	if router.TakeRedirect() {
		t.Fatalf("user navigation must not count as a redirect")
	}

	router.Redirect(apiclient.SignInRoute)
	if !router.TakeRedirect() || router.TakeRedirect() {
		t.Fatalf("expected exactly one pending redirect")
	}
	if router.signedIn() {
		t.Fatalf("expected sign-in route after redirect")
	}
}
