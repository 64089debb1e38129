package api

import (
	"net/http"

	"github.com/IlyasAtabaev731/ecofinds/internal/seed"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DummyDataResponse struct {
	Message           string      `json:"message"`
	UsersCount        int         `json:"users_count"`
	ItemsCount        int         `json:"items_count"`
	SampleCredentials Credentials `json:"sample_credentials"`
	Note              string      `json:"note"`
}

func (s *APIServer) dummyDataHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		users, items, err := s.market.Stats(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, DummyDataResponse{
			Message:    "Dummy data is available",
			UsersCount: users,
			ItemsCount: items,
			SampleCredentials: Credentials{
				Email:    seed.SampleEmail,
				Password: seed.SamplePassword,
			},
			Note: "Log in with the sample credentials to try purchases and messaging",
		})
	}
}
