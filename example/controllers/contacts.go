package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/frame"
	"github.com/dmitrymomot/frame/pkg/query"
	"github.com/dmitrymomot/frame/pkg/validator"
)

const perPage = 20

// Contacts manages the contacts table.
type Contacts struct {
	db *query.DB
}

func NewContacts(db *query.DB) *Contacts {
	return &Contacts{db: db}
}

func (ct *Contacts) Actions(a *frame.Actions) {
	a.Add("index", ct.Index)
	a.Add("show", ct.Show, frame.Param("id", frame.KindInt))
	a.Add("store", ct.Store, frame.Inject("validator"))
	a.Add("destroy", ct.Destroy, frame.Param("id", frame.KindInt))
}

// Index lists contacts, newest first, with an empty create form.
func (ct *Contacts) Index(c frame.Context, _ frame.Args) error {
	return ct.list(c, http.StatusOK, nil, nil)
}

func (ct *Contacts) Show(c frame.Context, args frame.Args) error {
	row, err := ct.db.Table("contacts").Find(c, args.Int("id"))
	if errors.Is(err, query.ErrNotFound) {
		return frame.ErrNotFound("Contact not found")
	}
	if err != nil {
		return err
	}
	return c.View(http.StatusOK, "contacts/show", map[string]any{"contact": row})
}

// Store validates the form and inserts a contact. Invalid input re-renders
// the list with field errors and the submitted values.
func (ct *Contacts) Store(c frame.Context, args frame.Args) error {
	input := map[string]string{
		"name":  strings.TrimSpace(c.Form("name")),
		"email": strings.ToLower(strings.TrimSpace(c.Form("email"))),
		"notes": c.Form("notes"),
	}

	v := frame.Arg[*validator.Validator](args, "validator")
	v.Required("name", input["name"]).
		MinLength("name", input["name"], 2).
		MaxLength("name", input["name"], 100).
		Required("email", input["email"]).
		Email("email", input["email"]).
		MaxLength("notes", input["notes"], 2000)
	if !v.Passes() {
		return ct.list(c, http.StatusUnprocessableEntity, v.Errors().Map(), input)
	}

	taken, err := ct.db.Table("contacts").Where("email", "=", input["email"]).Exists(c)
	if err != nil {
		return err
	}
	if taken {
		return ct.list(c, http.StatusUnprocessableEntity,
			map[string]string{"email": "This email is already in the book."}, input)
	}

	id, err := ct.db.Table("contacts").InsertReturning(c, query.Values{
		"name":  input["name"],
		"email": input["email"],
		"notes": input["notes"],
	}, "id")
	if err != nil {
		return err
	}

	if err := c.SetFlash("status", "Contact saved."); err != nil {
		return err
	}
	u, err := c.URL("contacts.show", map[string]string{"id": fmt.Sprint(id)})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, u)
}

func (ct *Contacts) Destroy(c frame.Context, args frame.Args) error {
	n, err := ct.db.Table("contacts").Where("id", "=", args.Int("id")).Delete(c)
	if err != nil {
		return err
	}
	if n == 0 {
		return frame.ErrNotFound("Contact not found")
	}

	if err := c.SetFlash("status", "Contact deleted."); err != nil {
		return err
	}
	u, err := c.URL("contacts.index", nil)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, u)
}

func (ct *Contacts) list(c frame.Context, code int, errs map[string]string, old map[string]string) error {
	page, err := ct.db.Table("contacts").
		Select("id", "name", "email", "created_at").
		Latest().
		Paginate(c, perPage, max(1, frame.QueryDefault(c, "page", 1)))
	if err != nil {
		return err
	}

	status, _ := c.Flash("status")
	return c.View(code, "contacts/index", map[string]any{
		"page":   page,
		"status": status,
		"errors": errs,
		"old":    old,
	})
}
