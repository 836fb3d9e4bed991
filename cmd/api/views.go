package main

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"billingflow/pkg/invoice"
	"billingflow/pkg/item"
	"billingflow/pkg/otel"
	"billingflow/pkg/session"
	"billingflow/pkg/user"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name+".html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func loginPageHandler(w http.ResponseWriter, r *http.Request) {
	render(w, "login", map[string]any{"Error": ""})
}

// loginHandler authenticates the submitted credentials and opens a session.
// Failures re-render the login form with the message.
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		render(w, "login", map[string]any{"Error": "invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := user.Authenticate(ctx, users, username, password)
	if err != nil {
		if errors.Is(err, user.ErrAuthFailed) {
			render(w, "login", map[string]any{"Error": err.Error()})
			return
		}
		log.Error(ctx, "authenticate", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sid, err := sessions.Create(ctx, u.Username)
	if err != nil {
		log.Error(ctx, "create session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(sessions.TTL().Seconds()),
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func registerPageHandler(w http.ResponseWriter, r *http.Request) {
	render(w, "register", map[string]any{"Error": ""})
}

// registerHandler creates a new user with a bcrypt-hashed password.
func registerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerHandler")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		render(w, "register", map[string]any{"Error": "invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	role := r.PostFormValue("role")
	if username == "" || password == "" {
		render(w, "register", map[string]any{"Error": "username and password are required"})
		return
	}

	hash, err := user.HashPassword(password)
	if err != nil {
		log.Error(ctx, "hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := users.Create(ctx, user.User{Username: username, PasswordHash: hash, Role: role}); err != nil {
		log.Error(ctx, "create user", "error", err)
		render(w, "register", map[string]any{"Error": "could not create user"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// logoutHandler destroys the session and clears the cookie.
func logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	if c, err := r.Cookie(session.CookieName); err == nil {
		if err := sessions.Destroy(ctx, c.Value); err != nil {
			log.Error(ctx, "destroy session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// homeHandler renders the item catalog for the logged-in user.
func homeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "homeHandler")
	defer span.End()

	list, err := items.List(ctx)
	if err != nil {
		log.Error(ctx, "list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, "index", map[string]any{"Items": list, "User": currentUser(ctx)})
}

// itemsPageHandler renders the item list with edit and delete controls.
func itemsPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "itemsPageHandler")
	defer span.End()

	list, err := items.List(ctx)
	if err != nil {
		log.Error(ctx, "list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, "items", map[string]any{"Items": list})
}

// createItemFormHandler handles the add-item form on the home page.
func createItemFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createItemFormHandler")
	defer span.End()

	it, ok := itemFromForm(w, r)
	if !ok {
		return
	}
	it.ID = uuid.NewString()
	if err := items.Create(ctx, it); err != nil {
		log.Error(ctx, "create item", "error", err)
		http.Error(w, "error creating item", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func editItemPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "editItemPageHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	it, err := items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		log.Error(ctx, "get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, "edit", map[string]any{"Item": it})
}

func updateItemFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItemFormHandler")
	defer span.End()

	it, ok := itemFromForm(w, r)
	if !ok {
		return
	}
	it.ID = mux.Vars(r)["id"]
	if err := items.Update(ctx, it); err != nil {
		log.Error(ctx, "update item", "error", err)
		http.Error(w, "Error updating item", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

func deleteItemFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteItemFormHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := items.Delete(ctx, id); err != nil {
		log.Error(ctx, "delete item", "error", err)
		http.Error(w, "Error deleting item", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// invoicePageHandler renders an invoice with its resolved item details.
func invoicePageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "invoicePageHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	v, err := invoice.Fetch(ctx, invoices, items, id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "Invoice not found", http.StatusNotFound)
			return
		}
		log.Error(ctx, "get invoice", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, "invoice", map[string]any{"Invoice": v})
}

func itemFromForm(w http.ResponseWriter, r *http.Request) (item.Item, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return item.Item{}, false
	}
	var it item.Item
	it.Name = r.PostFormValue("name")
	it.Description = r.PostFormValue("description")
	if it.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return item.Item{}, false
	}
	price, err := parsePrice(r.PostFormValue("price"))
	if err != nil {
		http.Error(w, "price must be a non-negative number", http.StatusBadRequest)
		return item.Item{}, false
	}
	it.Price = price
	return it, true
}

func parsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if p < 0 {
		return 0, errors.New("negative price")
	}
	return p, nil
}
