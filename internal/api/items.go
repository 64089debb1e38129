package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/service"
)

type CreateItemRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Condition   string           `json:"condition"`
	Images      []string         `json:"images"`
}

type PurchaseResponse struct {
	Message         string `json:"message"`
	TransactionID   string `json:"transaction_id"`
	EcoPointsEarned int    `json:"eco_points_earned"`
}

func (s *APIServer) listItemsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		items, err := s.market.ListItems(r.Context(), models.ItemFilter{
			Category: query.Get("category"),
			Search:   query.Get("search"),
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func (s *APIServer) itemHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := s.market.Item(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func (s *APIServer) userItemsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.market.ItemsBySeller(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func (s *APIServer) createItemHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateItemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Price == nil {
			writeError(w, http.StatusBadRequest, "price is required")
			return
		}

		item, err := s.market.CreateItem(r.Context(), currentUser(r).ID, service.Listing{
			Title:       req.Title,
			Description: req.Description,
			Price:       *req.Price,
			Category:    req.Category,
			Condition:   req.Condition,
			Images:      req.Images,
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func (s *APIServer) purchaseHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		tx, err := s.market.Purchase(r.Context(), currentUser(r).ID, mux.Vars(r)["id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, PurchaseResponse{
			Message:         "Purchase successful",
			TransactionID:   tx.ID,
			EcoPointsEarned: tx.EcoPointsEarned,
		})
	}
}
