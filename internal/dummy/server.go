package dummy

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

type ServerConfig struct {
	Port int
}

const homePage = `<!DOCTYPE html>
<html><head><title>QuickPizza Demo</title></head>
<body>
<h1>Welcome to the demo target</h1>
<p>Use <a href="/login">login</a> or browse <a href="/dashboards">dashboards</a>.</p>
</body></html>`

const loginPage = `<!DOCTYPE html>
<html><head><title>Login</title></head>
<body>
<h1>Sign in</h1>
<form method="POST" action="/login">
  <input name="user" type="text" placeholder="user">
  <input name="password" type="password" placeholder="password">
  <button type="submit">Log in</button>
</form>
</body></html>`

const dashboardPage = `<!DOCTYPE html>
<html><head><title>Dashboards</title></head>
<body>
<div class="dashboard-container">
  <h1>Home Dashboard</h1>
  <p>Requests per second: 42</p>
  <p>Error rate: 0.2%</p>
</div>
</body></html>`

// Handler builds the target application: HTML pages for the UI suite and
// latency endpoints for the load engine.
func Handler() http.Handler {
	mux := http.NewServeMux()

	// --- Pages for the UI suite ---

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, homePage)
	})

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if r.FormValue("user") == "admin" && r.FormValue("password") == "admin" {
				http.Redirect(w, r, "/dashboards", http.StatusSeeOther)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, loginPage)
			return
		}
		fmt.Fprint(w, loginPage)
	})

	mux.HandleFunc("/dashboards", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, dashboardPage)
	})

	// --- Latency endpoints for the load engine ---

	// 1. Fast Endpoint (10-50ms)
	mux.HandleFunc("/fast", func(w http.ResponseWriter, r *http.Request) {
		jitter := time.Duration(rand.Intn(40)+10) * time.Millisecond
		time.Sleep(jitter)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Fast response"))
	})

	// 2. Slow Endpoint (1s-2s) - Good for testing timeouts and queuing
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		jitter := time.Duration(rand.Intn(1000)+1000) * time.Millisecond
		time.Sleep(jitter)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Slow response"))
	})

	// 3. Error Endpoint (Random failures)
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		rnd := rand.Float32()
		if rnd < 0.2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("500 Internal Server Error"))
		} else if rnd < 0.4 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("429 Too Many Requests"))
		} else {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}
	})

	return mux
}

// Start runs the local target web application in the background.
func Start(cfg ServerConfig) {
	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("👻 Dummy target running on http://localhost%s\n", addr)
	fmt.Println("   Pages: /, /login, /dashboards | Endpoints: /fast, /slow, /error")

	server := &http.Server{
		Addr:    addr,
		Handler: Handler(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed: %v\n", err)
		}
	}()
}
