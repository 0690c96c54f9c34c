package favoris

import "github.com/google/uuid"

type FavoriStatus struct {
	TrajetID uuid.UUID `json:"trajet_id"`
	Favori   bool      `json:"favori"`
}
