package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"billingflow/pkg/invoice"
	"billingflow/pkg/invoice/pdf"
	"billingflow/pkg/item"
	"billingflow/pkg/otel"
)

// createInvoiceRequest is the body of POST /api/invoices.
type createInvoiceRequest struct {
	CustomerName string                `json:"customerName"`
	Items        []invoice.LineRequest `json:"items"`
}

// createInvoiceResponse carries the identifier of the created invoice.
type createInvoiceResponse struct {
	ID string `json:"id"`
}

// errorResponse is the structured error payload for API failures.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// createInvoiceHandler aggregates the requested lines into a new invoice.
// @Summary Create invoice
// @Description Resolves each requested item, captures current prices and persists the invoice
// @Accept json
// @Produce json
// @Param invoice body createInvoiceRequest true "Invoice request"
// @Success 201 {object} createInvoiceResponse
// @Failure 400 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/invoices [post]
func createInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createInvoiceHandler")
	defer span.End()

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "items must be an array")
		return
	}

	inv, err := aggregator.Create(ctx, req.CustomerName, req.Items)
	if err != nil {
		var nfe invoice.ItemNotFoundError
		switch {
		case errors.As(err, &nfe),
			errors.Is(err, invoice.ErrCustomerRequired),
			errors.Is(err, invoice.ErrItemsRequired),
			errors.Is(err, invoice.ErrInvalidQuantity):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error(ctx, "aggregate invoice", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if err := invoices.Create(ctx, inv); err != nil {
		log.Error(ctx, "persist invoice", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, createInvoiceResponse{ID: inv.ID})
}

// getInvoiceHandler retrieves an invoice with resolved item details.
// @Summary Get invoice
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} invoice.View
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/invoices/{id} [get]
func getInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getInvoiceHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	v, err := invoice.Fetch(ctx, invoices, items, id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respondError(w, http.StatusNotFound, "invoice not found")
			return
		}
		log.Error(ctx, "get invoice", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// listInvoicesHandler lists stored invoices.
// @Summary List invoices
// @Produce json
// @Success 200 {array} invoice.Invoice
// @Security ApiKeyAuth
// @Router /api/invoices [get]
func listInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listInvoicesHandler")
	defer span.End()

	list, err := invoices.List(ctx)
	if err != nil {
		log.Error(ctx, "list invoices", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// invoicePDFHandler exports an invoice as PDF.
// @Summary Download invoice PDF
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/invoices/{id}/pdf [get]
func invoicePDFHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "invoicePDFHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	v, err := invoice.Fetch(ctx, invoices, items, id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respondError(w, http.StatusNotFound, "invoice not found")
			return
		}
		log.Error(ctx, "get invoice", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out, err := pdf.Render(v)
	if err != nil {
		log.Error(ctx, "render pdf", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+v.ID+`.pdf"`)
	w.Write(out)
}

// createItemHandler adds a catalog item.
// @Summary Create item
// @Accept json
// @Produce json
// @Param item body item.Item true "Item"
// @Success 201 {object} item.Item
// @Security ApiKeyAuth
// @Router /api/items [post]
func createItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createItemHandler")
	defer span.End()

	var it item.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if err := items.Create(ctx, it); err != nil {
		log.Error(ctx, "create item", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, it)
}

// listItemsHandler lists catalog items.
// @Summary List items
// @Produce json
// @Success 200 {array} item.Item
// @Security ApiKeyAuth
// @Router /api/items [get]
func listItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listItemsHandler")
	defer span.End()

	list, err := items.List(ctx)
	if err != nil {
		log.Error(ctx, "list items", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// getItemHandler retrieves a catalog item by ID.
// @Summary Get item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} item.Item
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/items/{id} [get]
func getItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getItemHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	it, err := items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondError(w, http.StatusNotFound, "item not found")
			return
		}
		log.Error(ctx, "get item", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, it)
}

// updateItemHandler updates an existing catalog item.
// @Summary Update item
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body item.Item true "Item"
// @Success 200 {object} item.Item
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/items/{id} [put]
func updateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItemHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	var it item.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	it.ID = id
	if err := items.Update(ctx, it); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondError(w, http.StatusNotFound, "item not found")
			return
		}
		log.Error(ctx, "update item", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, it)
}

// deleteItemHandler removes a catalog item. Historical invoices keep their
// captured prices; their references to this item will no longer resolve.
// @Summary Delete item
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/items/{id} [delete]
func deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteItemHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := items.Delete(ctx, id); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondError(w, http.StatusNotFound, "item not found")
			return
		}
		log.Error(ctx, "delete item", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
