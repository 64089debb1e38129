package api

import "net/http"

func (s *APIServer) transactionsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := s.market.Transactions(r.Context(), currentUser(r).ID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, txs)
	}
}
