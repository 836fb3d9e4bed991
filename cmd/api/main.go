package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "billingflow/docs"
	"billingflow/pkg/invoice"
	invoicepg "billingflow/pkg/invoice/postgres"
	"billingflow/pkg/item"
	itempg "billingflow/pkg/item/postgres"
	"billingflow/pkg/logger"
	"billingflow/pkg/otel"
	"billingflow/pkg/session"
	"billingflow/pkg/user"
	userpg "billingflow/pkg/user/postgres"
)

var (
	log        *logger.Logger
	tracer     trace.Tracer
	sessions   *session.Manager
	items      item.Repository
	users      user.Repository
	invoices   invoice.Repository
	aggregator *invoice.Aggregator
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	total_amount DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	lines JSONB NOT NULL
);`

// @title BillingFlow API
// @version 1.0
// @description API for managing catalog items and invoices
// @host localhost:8080
// @BasePath /
func main() {
	log = logger.New(os.Stdout, logger.LevelInfo, "billingflow", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "billingflow", Host: os.Getenv("OTEL_HOST"), Probability: 1.0})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("billingflow")

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Error(context.Background(), "db connect", "error", err)
		os.Exit(1)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Error(context.Background(), "create tables", "error", err)
		os.Exit(1)
	}
	items = itempg.New(db)
	users = userpg.New(db)
	invoices = invoicepg.New(db)
	aggregator = invoice.NewAggregator(items)

	redisClient := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	sessions = session.NewManager(redisClient, time.Hour)

	r := mux.NewRouter()
	r.Use(traceMiddleware)

	r.HandleFunc("/login", loginPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/register", registerPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/register", registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", logoutHandler).Methods(http.MethodPost)

	r.Handle("/", requireLogin(homeHandler)).Methods(http.MethodGet)
	r.Handle("/items", requireLogin(itemsPageHandler)).Methods(http.MethodGet)
	r.Handle("/items", requireLogin(createItemFormHandler)).Methods(http.MethodPost)
	r.Handle("/items/{id}/edit", requireLogin(editItemPageHandler)).Methods(http.MethodGet)
	r.Handle("/items/{id}", requireLogin(updateItemFormHandler)).Methods(http.MethodPost)
	r.Handle("/items/{id}/delete", requireLogin(deleteItemFormHandler)).Methods(http.MethodPost)
	r.Handle("/invoices/{id}", requireLogin(invoicePageHandler)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/items", listItemsHandler).Methods(http.MethodGet)
	api.HandleFunc("/items", createItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", getItemHandler).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", updateItemHandler).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", deleteItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/invoices", createInvoiceHandler).Methods(http.MethodPost)
	api.HandleFunc("/invoices", listInvoicesHandler).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id}", getInvoiceHandler).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id}/pdf", invoicePDFHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info(context.Background(), "listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error(context.Background(), "server closed", "error", err)
	}
}

type ctxKey int

const userKey ctxKey = 1

// currentUser returns the logged-in username stored by the auth middlewares.
func currentUser(ctx context.Context) string {
	username, _ := ctx.Value(userKey).(string)
	return username
}

// authMiddleware ensures a valid session exists; API callers get a 401.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(session.CookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		username, err := sessions.Username(r.Context(), c.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLogin gates interactive pages, redirecting to the login form.
func requireLogin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(session.CookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		username, err := sessions.Username(r.Context(), c.Value)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
